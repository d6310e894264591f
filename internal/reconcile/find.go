package reconcile

import (
	"context"

	"github.com/BjoernSchotte/atlcli/internal/index"
	"github.com/BjoernSchotte/atlcli/internal/remote"
	"github.com/BjoernSchotte/atlcli/internal/syncerr"
)

// Find locates tracked pages by a fuzzy match against title or filename,
// preferring the local secondary cache when one is open and falling back to
// a remote search otherwise.
func (e *Engine) Find(ctx context.Context, query string, limit int) ([]remote.PageSummary, error) {
	if e.Index != nil {
		entries, err := e.Index.AllPages()
		if err != nil {
			return nil, err
		}
		matches := index.Find(query, entries, limit)
		out := make([]remote.PageSummary, 0, len(matches))
		for _, m := range matches {
			out = append(out, remote.PageSummary{ID: m.PageID, Title: m.Name})
		}
		return out, nil
	}
	return e.Remote.SearchPages(ctx, query, limit)
}

// History returns the recorded reconciliation decisions for a tracked
// path, oldest first. Requires a secondary cache.
func (e *Engine) History(path string) ([]index.HistoryEntry, error) {
	if e.Index == nil {
		return nil, syncerr.Usage("history requires the secondary cache, which is not open")
	}
	return e.Index.History(path)
}
