package memstore

import (
	"context"
	"testing"

	"github.com/BjoernSchotte/atlcli/internal/remote"
)

func TestCreateThenGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreatePage(ctx, remote.CreateInput{SpaceKey: "SP", Title: "Guide", StorageText: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("CreatePage() error = %v", err)
	}
	if created.Version != 1 {
		t.Fatalf("created.Version = %d, want 1", created.Version)
	}

	got, err := s.GetPage(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if got.Title != "Guide" {
		t.Fatalf("got.Title = %q", got.Title)
	}
}

func TestUpdatePageBumpsVersion(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, _ := s.CreatePage(ctx, remote.CreateInput{Title: "A", StorageText: "one"})

	updated, err := s.UpdatePage(ctx, remote.UpdateInput{ID: created.ID, Title: "A", StorageText: "two", Version: created.Version})
	if err != nil {
		t.Fatalf("UpdatePage() error = %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("updated.Version = %d, want 2", updated.Version)
	}
}

func TestUpdatePageRejectsStaleVersion(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, _ := s.CreatePage(ctx, remote.CreateInput{Title: "A", StorageText: "one"})
	s.UpdatePage(ctx, remote.UpdateInput{ID: created.ID, Title: "A", StorageText: "two", Version: created.Version})

	if _, err := s.UpdatePage(ctx, remote.UpdateInput{ID: created.ID, Title: "A", StorageText: "three", Version: created.Version}); err == nil {
		t.Fatal("expected stale version rejection")
	}
}

func TestSearchPagesFiltersByTitle(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.CreatePage(ctx, remote.CreateInput{Title: "Intro"})
	s.CreatePage(ctx, remote.CreateInput{Title: "Guide"})

	results, err := s.SearchPages(ctx, "intro", 0)
	if err != nil {
		t.Fatalf("SearchPages() error = %v", err)
	}
	if len(results) != 1 || results[0].Title != "Intro" {
		t.Fatalf("results = %+v", results)
	}
}

func TestEnumerateScopeReturnsAll(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.CreatePage(ctx, remote.CreateInput{Title: "A"})
	s.CreatePage(ctx, remote.CreateInput{Title: "B"})

	out, err := s.EnumerateScope(ctx, "any")
	if err != nil {
		t.Fatalf("EnumerateScope() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
}
