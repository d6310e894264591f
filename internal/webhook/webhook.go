// Package webhook is the third reconciliation event source: an HTTP
// receiver for remote-initiated push notifications, deduplicated by
// delivery id and filtered to a configured scope.
package webhook

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// EventType enumerates the remote push-notification kinds the receiver
// accepts.
type EventType string

const (
	EventPageCreated EventType = "page_created"
	EventPageUpdated EventType = "page_updated"
	EventPageRemoved EventType = "page_removed"
	EventPageTrashed EventType = "page_trashed"
)

// Payload is the expected webhook request body: a typed remote event
// naming the page and space it concerns.
type Payload struct {
	Event      EventType `json:"event"`
	PageID     string    `json:"id"`
	Title      string    `json:"title"`
	SpaceKey   string    `json:"spaceKey"`
	DeliveryID string    `json:"delivery_id"`
}

// Receiver is an http.Handler that accepts webhook deliveries and reports
// each distinct, in-scope one on Events.
type Receiver struct {
	// Events delivers the page id of every accepted, in-scope delivery.
	Events chan string

	// AllowPageIDs, if non-empty, restricts accepted deliveries to this set
	// of page ids. AllowSpaceKey, if non-empty, additionally restricts to
	// payloads naming that space. Both unset (the default) accepts every
	// well-formed delivery.
	AllowPageIDs  map[string]struct{}
	AllowSpaceKey string

	mu   sync.Mutex
	seen map[string]struct{}
	cap  int
	fifo []string
}

// New creates a Receiver that remembers up to dedupeCap recent delivery
// ids (0 uses a sensible default) and accepts every delivery until a scope
// filter is configured on the returned Receiver.
func New(dedupeCap int) *Receiver {
	if dedupeCap <= 0 {
		dedupeCap = 1000
	}
	return &Receiver{
		Events: make(chan string, 64),
		seen:   make(map[string]struct{}),
		cap:    dedupeCap,
	}
}

func (r *Receiver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p Payload
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if p.PageID == "" {
		http.Error(w, "missing page_id", http.StatusBadRequest)
		return
	}
	if p.DeliveryID == "" {
		p.DeliveryID = uuid.New().String()
	}

	if r.duplicate(p.DeliveryID) {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if !r.inScope(p) {
		// Acknowledged so the remote does not retry, but never queued:
		// payloads outside the configured scope filter are ignored.
		w.WriteHeader(http.StatusOK)
		return
	}

	select {
	case r.Events <- p.PageID:
	default:
	}
	w.WriteHeader(http.StatusAccepted)
}

// inScope reports whether p passes the configured page-id set / space key
// filter. An unset filter accepts everything.
func (r *Receiver) inScope(p Payload) bool {
	if len(r.AllowPageIDs) > 0 {
		if _, ok := r.AllowPageIDs[p.PageID]; !ok {
			return false
		}
	}
	if r.AllowSpaceKey != "" && p.SpaceKey != r.AllowSpaceKey {
		return false
	}
	return true
}

func (r *Receiver) duplicate(deliveryID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[deliveryID]; ok {
		return true
	}

	r.seen[deliveryID] = struct{}{}
	r.fifo = append(r.fifo, deliveryID)
	if len(r.fifo) > r.cap {
		oldest := r.fifo[0]
		r.fifo = r.fifo[1:]
		delete(r.seen, oldest)
	}
	return false
}
