package reconcile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BjoernSchotte/atlcli/internal/fingerprint"
	"github.com/BjoernSchotte/atlcli/internal/store"
)

// PageReport is one page's reported status, the recorded state refreshed
// with a freshly computed local hash.
type PageReport struct {
	store.PageState
	// LocalChanged is recomputed from disk; RemoteChanged is carried
	// forward from the recorded SyncState, since status never refetches
	// the remote.
	LocalChanged  bool
	RemoteChanged bool
}

// Status reports the sync state of every tracked page without contacting
// the remote or mutating anything: a file that has moved since the last
// sync is detected by its frontmatter id and reported at its current path,
// but the recorded state on disk is left untouched (ReconcileRenames, which
// does persist the repair, only runs from entry points already allowed to
// write). A page whose on-disk hash no longer matches the recorded
// localHash is reported with its state upgraded accordingly, even though
// the on-disk state.json still reflects the last-known value.
func (e *Engine) Status(ctx context.Context) ([]PageReport, error) {
	ds, err := e.Store.ReadState()
	if err != nil {
		return nil, err
	}

	moved, err := e.detectRenames(ctx, ds)
	if err != nil {
		return nil, err
	}

	reports := make([]PageReport, 0, len(ds.Pages))
	for id, p := range ds.Pages {
		if p.Tombstone {
			continue
		}
		if newPath, ok := moved[id]; ok {
			p.Path = newPath
		}

		localChanged, err := e.localChanged(p)
		if err != nil {
			return nil, err
		}
		remoteChanged := p.SyncState == store.StateRemoteModified || p.SyncState == store.StateConflict

		reported := p
		reported.SyncState = computeSyncState(localChanged, remoteChanged)
		reports = append(reports, PageReport{
			PageState:     reported,
			LocalChanged:  localChanged,
			RemoteChanged: remoteChanged,
		})
	}
	return reports, nil
}

// localChanged reports whether the file on disk no longer matches the
// recorded localHash. A missing file is treated as changed, since pull or
// push will need to rediscover it.
func (e *Engine) localChanged(p store.PageState) (bool, error) {
	raw, err := os.ReadFile(filepath.Join(e.Root, p.Path))
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return fingerprint.Fingerprint(raw) != p.LocalHash, nil
}
