package e2e

import (
	"testing"
)

// TestAddTracksNewLocalFile covers creating a remote page for a previously
// untracked file, deriving its title from the first heading, and recording
// the assigned id in both frontmatter and the State Store.
func TestAddTracksNewLocalFile(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testContext(t)
	defer cancel()

	f.writeFile("guide.md", "# Guide\n")

	res, err := f.Engine.Add(ctx, "guide.md", "", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if res.Action != "created" {
		t.Fatalf("Action = %q, want created", res.Action)
	}
	if res.Path != "guide.md" {
		t.Fatalf("Path = %q, want guide.md", res.Path)
	}
	id := res.ID
	if id == "" {
		t.Fatal("expected a non-empty page id")
	}

	page, err := f.Engine.Remote.GetPage(ctx, id)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if page.Title != "Guide" {
		t.Fatalf("remote title = %q, want Guide", page.Title)
	}

	ds, err := f.Engine.Store.ReadState()
	if err != nil {
		t.Fatalf("ReadState() error = %v", err)
	}
	if ds.PathIndex["guide.md"] != id {
		t.Fatalf("pathIndex[guide.md] = %q, want %q", ds.PathIndex["guide.md"], id)
	}
	if ds.Pages[id].Title != "Guide" {
		t.Fatalf("pages[%s].Title = %q, want Guide", id, ds.Pages[id].Title)
	}
}

// TestAddRefusesAlreadyTrackedFile covers Add's refusal to re-track a file
// already present in the path index.
func TestAddRefusesAlreadyTrackedFile(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testContext(t)
	defer cancel()

	f.writeFile("guide.md", "# Guide\n")
	if _, err := f.Engine.Add(ctx, "guide.md", "", ""); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if _, err := f.Engine.Add(ctx, "guide.md", "", ""); err == nil {
		t.Fatal("second Add() on an already-tracked file: expected error")
	}
}
