package e2e

import (
	"testing"

	"github.com/BjoernSchotte/atlcli/internal/store"
)

// TestLocalEditThenPush covers a local edit of an already-synced page being
// detected by status and uploaded by push, advancing the remote version.
func TestLocalEditThenPush(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testContext(t)
	defer cancel()

	f.seedPage("P1", "Intro", "Hi\n")
	if _, err := f.Engine.Pull(ctx, "P1", false); err != nil {
		t.Fatalf("Pull() error = %v", err)
	}

	original := f.readFile("intro.md")
	f.writeFile("intro.md", original+"More.\n")

	reports, err := f.Engine.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if reports[0].SyncState != store.StateLocalModified {
		t.Fatalf("SyncState = %q, want local-modified", reports[0].SyncState)
	}

	res, err := f.Engine.Push(ctx, "P1")
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if res.Action != "pushed" {
		t.Fatalf("Action = %q, want pushed", res.Action)
	}
	if res.Version != 2 {
		t.Fatalf("Version = %d, want 2", res.Version)
	}

	page, err := f.Engine.Remote.GetPage(ctx, "P1")
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if page.Version != 2 {
		t.Fatalf("remote version = %d, want 2", page.Version)
	}

	reports, err = f.Engine.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if reports[0].SyncState != store.StateSynced {
		t.Fatalf("SyncState after push = %q, want synced", reports[0].SyncState)
	}
}

// TestPushRefusesUnresolvedConflictMarkers covers push's refusal to upload
// a file the operator has not yet resolved.
func TestPushRefusesUnresolvedConflictMarkers(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testContext(t)
	defer cancel()

	f.seedPage("P1", "Intro", "Hi\n")
	if _, err := f.Engine.Pull(ctx, "P1", false); err != nil {
		t.Fatalf("Pull() error = %v", err)
	}

	original := f.readFile("intro.md")
	f.writeFile("intro.md", original+"<<<<<<< LOCAL\nHi local\n=======\nHi remote\n>>>>>>> REMOTE\n")

	if _, err := f.Engine.Push(ctx, "P1"); err == nil {
		t.Fatal("Push() with unresolved conflict markers: expected error")
	}
}

// TestPushUnchangedIsNoop covers push recognizing that the encoded local
// copy already matches the remote's storage text and skipping the write.
func TestPushUnchangedIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testContext(t)
	defer cancel()

	f.seedPage("P1", "Intro", "Hi\n")
	if _, err := f.Engine.Pull(ctx, "P1", false); err != nil {
		t.Fatalf("Pull() error = %v", err)
	}

	res, err := f.Engine.Push(ctx, "P1")
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if res.Action != "unchanged" {
		t.Fatalf("Action = %q, want unchanged", res.Action)
	}
	if res.Version != 1 {
		t.Fatalf("Version = %d, want 1 (unchanged)", res.Version)
	}
}
