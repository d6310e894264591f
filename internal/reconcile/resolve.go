package reconcile

import (
	"context"
	"fmt"

	"github.com/BjoernSchotte/atlcli/internal/fingerprint"
	"github.com/BjoernSchotte/atlcli/internal/merge"
	"github.com/BjoernSchotte/atlcli/internal/store"
	"github.com/BjoernSchotte/atlcli/internal/syncerr"
)

// Resolve strips the conflict markers left in a page's tracked file,
// keeping the local or remote side, and marks the page local-modified so
// the next push sends the resolved text. "merged" accept mode leaves the
// file as the caller already hand-edited it and only clears the conflict
// state.
//
// Resolve also advances the page's recorded version to the remote's
// current version and rebases the cached ancestor onto the resolved text.
// Without this, the next push would run the same three-way merge against
// the stale pre-conflict ancestor and re-derive the identical conflict
// region, since the operator's choice between local and remote is not
// itself reflected anywhere the merge step consults.
func (e *Engine) Resolve(ctx context.Context, id string, accept merge.Accept, merged bool) error {
	ds, err := e.Store.ReadState()
	if err != nil {
		return err
	}
	p, ok := ds.Pages[id]
	if !ok {
		return syncerr.Usage("page %s is not tracked", id)
	}
	if p.SyncState != store.StateConflict {
		return syncerr.Usage("page %s has no recorded conflict", id)
	}

	fm, body, err := e.readTrackedFile(p.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", p.Path, err)
	}

	resolved := string(body)
	if !merged {
		resolved, err = merge.Resolve(string(body), accept)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p.Path, err)
		}
		if err := e.writeTrackedFile(p.Path, fm, []byte(resolved)); err != nil {
			return err
		}
	} else if merge.HasConflictMarkers(resolved) {
		return syncerr.Usage("%s still contains conflict markers", p.Path)
	}

	remotePage, err := e.Remote.GetPage(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch page %s: %w", id, err)
	}

	localHash := fingerprint.Fingerprint([]byte(resolved))
	if err := store.UpdatePage(ds, id, func(cur store.PageState) store.PageState {
		cur.Version = remotePage.Version
		cur.LocalHash = localHash
		cur.BaseHash = localHash
		cur.SyncState = store.StateLocalModified
		return cur
	}); err != nil {
		return err
	}
	if e.DryRun {
		return nil
	}
	if err := e.Store.WriteState(ds); err != nil {
		return err
	}
	if err := e.writeAncestor(id, []byte(resolved)); err != nil {
		return err
	}
	e.recordHistory(p.Path, "resolve", string(accept))
	e.Metrics.ObserveResolve()
	return nil
}
