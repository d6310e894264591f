package reconcile

import (
	"context"
	"fmt"

	"github.com/BjoernSchotte/atlcli/internal/store"
)

// detectRenames scans every tracked Markdown file for its frontmatter id and
// reports, for each tracked page whose file has moved since the last sync,
// the path it now lives at. Frontmatter, not the path on record, is
// authoritative: a rename is never detected by content fingerprint alone.
// detectRenames only reads; it never writes to the State Store, the
// secondary index, or the remote, so callers that must stay read-only
// (Status) can call it directly instead of ReconcileRenames.
func (e *Engine) detectRenames(ctx context.Context, ds *store.DirectoryState) (map[string]string, error) {
	files, err := e.Scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan tracked directory: %w", err)
	}

	moved := map[string]string{}
	for _, f := range files {
		fm, _, err := e.readTrackedFile(f.Path)
		if err != nil {
			continue
		}
		id := fm.ID()
		if id == "" {
			continue
		}
		p, known := ds.Pages[id]
		if !known || p.Tombstone || p.Path == f.Path {
			continue
		}
		moved[id] = f.Path
	}
	return moved, nil
}

// ReconcileRenames repairs pages[id].path/pathIndex for every rename
// detectRenames finds, and persists the repair to the State Store (and the
// secondary index, if open). Called from Push and the daemon's
// local-dispatch path — entry points that are already allowed to mutate
// the tracked directory's recorded state. Add never calls it: it only ever
// operates on a path that is not yet tracked, so there is no recorded path
// to repair.
func (e *Engine) ReconcileRenames(ctx context.Context) (renamed int, err error) {
	ds, err := e.Store.ReadState()
	if err != nil {
		return 0, err
	}

	moved, err := e.detectRenames(ctx, ds)
	if err != nil {
		return 0, err
	}

	for id, newPath := range moved {
		oldPath := ds.Pages[id].Path
		if err := store.UpdatePage(ds, id, func(cur store.PageState) store.PageState {
			cur.Path = newPath
			return cur
		}); err != nil {
			continue
		}
		renamed++
		e.recordHistory(newPath, "rename", fmt.Sprintf("page %s moved from %s", id, oldPath))
	}

	if renamed > 0 && !e.DryRun {
		if err := e.Store.WriteState(ds); err != nil {
			return renamed, err
		}
		if e.Index != nil {
			for id, p := range ds.Pages {
				if !p.Tombstone {
					_ = e.Index.UpsertPage(id, p.Path, p.Title)
				}
			}
		}
	}
	return renamed, nil
}
