// Package poller is the second reconciliation event source: it periodically
// asks the RemoteStore for the current version of every page in scope and
// reports pages whose version has advanced past what was last recorded.
package poller

import (
	"context"
	"time"

	"github.com/BjoernSchotte/atlcli/internal/remote"
)

// VersionsFunc returns the caller's currently recorded version for every
// tracked page id, used to detect which pages have a newer remote version.
type VersionsFunc func() map[string]int

// Poller runs EnumerateScope on a fixed interval.
type Poller struct {
	store    remote.Store
	scope    string
	interval time.Duration
	recorded VersionsFunc

	// Events delivers the ids of pages whose remote version exceeds the
	// recorded one.
	Events chan string

	// Deleted delivers the ids of previously tracked pages that EnumerateScope
	// no longer reports — the remote-deleted condition.
	Deleted chan string

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Poller. It does not start until Start is called.
func New(store remote.Store, scope string, interval time.Duration, recorded VersionsFunc) *Poller {
	return &Poller{
		store:    store,
		scope:    scope,
		interval: interval,
		recorded: recorded,
		Events:   make(chan string, 64),
		Deleted:  make(chan string, 64),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop in the background.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	go p.run(ctx)
}

// Stop halts the polling loop.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	defer close(p.Events)
	defer close(p.Deleted)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	summaries, err := p.store.EnumerateScope(ctx, p.scope)
	if err != nil {
		return
	}

	recorded := p.recorded()
	reported := make(map[string]struct{}, len(summaries))
	for _, s := range summaries {
		reported[s.ID] = struct{}{}
		if s.Version > recorded[s.ID] {
			select {
			case p.Events <- s.ID:
			default:
			}
		}
	}

	// Any tracked id EnumerateScope no longer reports has been removed,
	// trashed, or otherwise withdrawn on the remote.
	for id := range recorded {
		if _, ok := reported[id]; !ok {
			select {
			case p.Deleted <- id:
			default:
			}
		}
	}
}
