package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BjoernSchotte/atlcli/internal/fingerprint"
	"github.com/BjoernSchotte/atlcli/internal/merge"
	"github.com/BjoernSchotte/atlcli/internal/remote"
	"github.com/BjoernSchotte/atlcli/internal/store"
	"github.com/BjoernSchotte/atlcli/internal/syncerr"
)

// PushResult reports what Push did for one page.
type PushResult struct {
	ID       string
	Path     string
	Action   string // "pushed", "merged", "conflict", "unchanged"
	Version  int
	Conflict bool
}

// Push writes the local copy of a tracked page to the remote. If the
// remote has advanced past the last-recorded version, Push performs a
// three-way merge against the cached ancestor before pushing; a merge with
// unresolved conflicts is written back to the local file with conflict
// markers and is never sent to the remote.
func (e *Engine) Push(ctx context.Context, id string) (PushResult, error) {
	if _, err := e.ReconcileRenames(ctx); err != nil {
		return PushResult{}, err
	}

	ds, err := e.Store.ReadState()
	if err != nil {
		return PushResult{}, err
	}

	p, ok := ds.Pages[id]
	if !ok || p.Tombstone {
		return PushResult{}, syncerr.Usage("page %s is not tracked", id)
	}

	fm, body, err := e.readTrackedFile(p.Path)
	if err != nil {
		return PushResult{}, fmt.Errorf("read %s: %w", p.Path, err)
	}
	localMD := string(body)
	localHash := fingerprint.Fingerprint(body)

	if merge.HasConflictMarkers(localMD) {
		return PushResult{ID: id, Path: p.Path, Action: "conflict", Conflict: true},
			syncerr.Usage("%s still has unresolved conflict markers", p.Path)
	}

	localStorage, err := e.Codec.MarkdownToStorage(localMD)
	if err != nil {
		return PushResult{}, fmt.Errorf("encode %s: %w", p.Path, err)
	}

	remotePage, err := e.Remote.GetPage(ctx, id)
	if err != nil {
		return PushResult{}, fmt.Errorf("fetch page %s: %w", id, err)
	}

	storageToSend := localStorage
	action := "pushed"

	if remotePage.Version > p.Version {
		ancestorText, hasAncestor, err := e.Store.ReadAncestor(id)
		if err != nil {
			return PushResult{}, fmt.Errorf("read ancestor for %s: %w", id, err)
		}
		remoteMD, err := e.Codec.StorageToMarkdown(remotePage.StorageText)
		if err != nil {
			return PushResult{}, fmt.Errorf("decode remote storage text for %s: %w", id, err)
		}

		result := merge.Merge(ancestorText, localMD, remoteMD, hasAncestor)
		e.Metrics.ObserveMerge()
		if !result.Clean() {
			if err := e.writeTrackedFile(p.Path, fm, []byte(result.Text)); err != nil {
				return PushResult{}, err
			}
			if !e.DryRun {
				_ = store.UpdatePage(ds, id, func(cur store.PageState) store.PageState {
					cur.SyncState = store.StateConflict
					return cur
				})
				if err := e.Store.WriteState(ds); err != nil {
					return PushResult{}, err
				}
			}
			e.recordHistory(p.Path, "conflict", fmt.Sprintf("remote version %d", remotePage.Version))
			e.Metrics.ObservePush("conflict")
			return PushResult{ID: id, Path: p.Path, Action: "conflict", Conflict: true}, nil
		}

		if result.Text != localMD {
			if err := e.writeTrackedFile(p.Path, fm, []byte(result.Text)); err != nil {
				return PushResult{}, err
			}
			localHash = fingerprint.Fingerprint([]byte(result.Text))
		}
		storageToSend, err = e.Codec.MarkdownToStorage(result.Text)
		if err != nil {
			return PushResult{}, fmt.Errorf("re-encode merged %s: %w", p.Path, err)
		}
		action = "merged"
	}

	if storageToSend == remotePage.StorageText {
		e.Metrics.ObservePush("unchanged")
		return PushResult{ID: id, Path: p.Path, Action: "unchanged", Version: remotePage.Version}, nil
	}

	if e.DryRun {
		return PushResult{ID: id, Path: p.Path, Action: action, Version: remotePage.Version}, nil
	}

	updated, err := e.Remote.UpdatePage(ctx, remote.UpdateInput{
		ID:          id,
		Title:       p.Title,
		StorageText: storageToSend,
		Version:     remotePage.Version,
	})
	if err != nil {
		return PushResult{}, fmt.Errorf("update page %s: %w", id, err)
	}

	if err := store.UpdatePage(ds, id, func(cur store.PageState) store.PageState {
		cur.Version = updated.Version
		cur.LocalHash = localHash
		cur.RemoteHash = localHash
		cur.BaseHash = localHash
		cur.SyncState = store.StateSynced
		cur.LastSyncedAt = e.Now()
		cur.LastError = ""
		return cur
	}); err != nil {
		return PushResult{}, err
	}
	ds.LastSync = e.Now()
	if err := e.Store.WriteState(ds); err != nil {
		return PushResult{}, err
	}
	if err := e.writeAncestor(id, body); err != nil {
		return PushResult{}, err
	}
	e.recordHistory(p.Path, "push", fmt.Sprintf("version %d", updated.Version))
	e.Metrics.ObservePush(action)

	return PushResult{ID: id, Path: p.Path, Action: action, Version: updated.Version}, nil
}

// PushAll pushes every tracked page within scope (every tracked page, if
// scope is empty) whose current fingerprint differs from its recorded
// baseHash — spec's definition of a whole-directory push, distinct from
// Status's localHash-based change detection used only for display. Each
// changed page goes through Push individually, so a remote that has
// advanced still routes through the Merge Engine per page rather than
// being blindly overwritten.
func (e *Engine) PushAll(ctx context.Context, scope string) ([]PushResult, error) {
	ds, err := e.Store.ReadState()
	if err != nil {
		return nil, err
	}

	var results []PushResult
	for id, p := range ds.Pages {
		if p.Tombstone {
			continue
		}
		if scope != "" && p.SpaceKey != scope {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(e.Root, p.Path))
		if err != nil {
			continue
		}
		if fingerprint.Fingerprint(raw) == p.BaseHash {
			continue
		}

		r, err := e.Push(ctx, id)
		if err != nil {
			if _, usage := err.(*syncerr.UsageError); usage {
				results = append(results, r)
				continue
			}
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
