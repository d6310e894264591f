package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func post(t *testing.T, r *Receiver, p Payload) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(p)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWebhookDeliversEvent(t *testing.T) {
	r := New(0)
	rec := post(t, r, Payload{PageID: "P1", DeliveryID: "d1"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	select {
	case id := <-r.Events:
		if id != "P1" {
			t.Fatalf("id = %q, want P1", id)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWebhookDeduplicatesDelivery(t *testing.T) {
	r := New(0)
	post(t, r, Payload{PageID: "P1", DeliveryID: "d1"})
	<-r.Events

	post(t, r, Payload{PageID: "P1", DeliveryID: "d1"})
	select {
	case id := <-r.Events:
		t.Fatalf("unexpected duplicate event delivered: %q", id)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebhookRejectsMissingPageID(t *testing.T) {
	r := New(0)
	rec := post(t, r, Payload{DeliveryID: "d1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookRejectsWrongMethod(t *testing.T) {
	r := New(0)
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestWebhookFiltersOutOfScopeSpaceKey(t *testing.T) {
	r := New(0)
	r.AllowSpaceKey = "ENG"

	rec := post(t, r, Payload{Event: EventPageUpdated, PageID: "P1", SpaceKey: "MKT", DeliveryID: "d1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	select {
	case id := <-r.Events:
		t.Fatalf("unexpected out-of-scope event delivered: %q", id)
	case <-time.After(100 * time.Millisecond):
	}

	rec = post(t, r, Payload{Event: EventPageUpdated, PageID: "P2", SpaceKey: "ENG", DeliveryID: "d2"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	select {
	case id := <-r.Events:
		if id != "P2" {
			t.Fatalf("id = %q, want P2", id)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for in-scope event")
	}
}

func TestWebhookFiltersOutOfScopePageID(t *testing.T) {
	r := New(0)
	r.AllowPageIDs = map[string]struct{}{"P1": {}}

	rec := post(t, r, Payload{Event: EventPageCreated, PageID: "P9", DeliveryID: "d1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	select {
	case id := <-r.Events:
		t.Fatalf("unexpected out-of-scope event delivered: %q", id)
	case <-time.After(100 * time.Millisecond):
	}

	rec = post(t, r, Payload{Event: EventPageCreated, PageID: "P1", DeliveryID: "d2"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	select {
	case id := <-r.Events:
		if id != "P1" {
			t.Fatalf("id = %q, want P1", id)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for in-scope event")
	}
}
