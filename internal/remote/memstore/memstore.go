// Package memstore is an in-memory RemoteStore fixture used by tests that
// exercise the reconciliation engine without a live backend.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/BjoernSchotte/atlcli/internal/remote"
)

// Store is a thread-safe in-memory RemoteStore.
type Store struct {
	mu    sync.Mutex
	pages map[string]remote.Page
	seq   int
}

// New creates an empty Store.
func New() *Store {
	return &Store{pages: make(map[string]remote.Page)}
}

// Seed inserts a page directly, bypassing CreatePage, for test setup.
func (s *Store) Seed(p remote.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[p.ID] = p
}

func (s *Store) GetPage(_ context.Context, id string) (remote.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return remote.Page{}, fmt.Errorf("memstore: page %s not found", id)
	}
	return p, nil
}

func (s *Store) SearchPages(_ context.Context, query string, limit int) ([]remote.PageSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []remote.PageSummary
	q := strings.ToLower(query)
	for _, p := range s.pages {
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		out = append(out, remote.PageSummary{ID: p.ID, Title: p.Title, Version: p.Version})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreatePage(_ context.Context, in remote.CreateInput) (remote.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := uuid.New().String()
	p := remote.Page{
		ID:          id,
		Title:       in.Title,
		SpaceKey:    in.SpaceKey,
		Version:     1,
		StorageText: in.StorageText,
		ParentID:    in.ParentID,
	}
	s.pages[id] = p
	return p, nil
}

func (s *Store) UpdatePage(_ context.Context, in remote.UpdateInput) (remote.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pages[in.ID]
	if !ok {
		return remote.Page{}, fmt.Errorf("memstore: page %s not found", in.ID)
	}
	if in.Version != 0 && in.Version < existing.Version {
		return remote.Page{}, fmt.Errorf("memstore: stale version %d for page %s at %d", in.Version, in.ID, existing.Version)
	}

	existing.Title = in.Title
	existing.StorageText = in.StorageText
	existing.Version++
	s.pages[in.ID] = existing
	return existing, nil
}

func (s *Store) EnumerateScope(_ context.Context, _ string) ([]remote.PageSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]remote.PageSummary, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, remote.PageSummary{ID: p.ID, Title: p.Title, Version: p.Version})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ remote.Store = (*Store)(nil)
