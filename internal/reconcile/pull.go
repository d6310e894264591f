package reconcile

import (
	"context"
	"fmt"

	"github.com/BjoernSchotte/atlcli/internal/fingerprint"
	"github.com/BjoernSchotte/atlcli/internal/store"
	"github.com/BjoernSchotte/atlcli/internal/syncerr"
	"github.com/BjoernSchotte/atlcli/pkg/frontmatter"
)

// PullResult reports what Pull did for one page.
type PullResult struct {
	ID      string
	Path    string
	Action  string // "created", "updated", "skipped-diverged"; Add also uses "would-create"
	Message string
}

// Pull fetches id from the remote and writes it to the local tracked file,
// creating the file if this is the first time the page is seen. If the
// local file has diverged since the last sync (localChanged) and the
// caller has not passed force, Pull refuses rather than overwrite
// unsynced local edits.
func (e *Engine) Pull(ctx context.Context, id string, force bool) (PullResult, error) {
	ds, err := e.Store.ReadState()
	if err != nil {
		return PullResult{}, err
	}

	page, err := e.Remote.GetPage(ctx, id)
	if err != nil {
		return PullResult{}, fmt.Errorf("fetch page %s: %w", id, err)
	}

	md, err := e.Codec.StorageToMarkdown(page.StorageText)
	if err != nil {
		return PullResult{}, fmt.Errorf("decode storage text for page %s: %w", id, err)
	}

	existing, known := ds.Pages[id]
	if known && !existing.Tombstone {
		localChanged, err := e.localChanged(existing)
		if err != nil {
			return PullResult{}, err
		}
		if localChanged && !force {
			e.Metrics.ObservePull("skipped-diverged")
			return PullResult{ID: id, Path: existing.Path, Action: "skipped-diverged"},
				syncerr.Usage("local copy of %s has diverged; rerun with force to overwrite", existing.Path)
		}
	}

	path := existing.Path
	action := "updated"
	if path == "" {
		path = titleToPath(page.Title)
		action = "created"
	}

	fm := frontmatter.Frontmatter{}
	fm.SetID(id)
	if page.Title != "" {
		fm.SetTitle(page.Title)
	}
	if err := e.writeTrackedFile(path, fm, []byte(md)); err != nil {
		return PullResult{}, fmt.Errorf("write %s: %w", path, err)
	}

	localHash := fingerprint.Fingerprint([]byte(md))
	if err := store.UpdatePage(ds, id, func(p store.PageState) store.PageState {
		p.Path = path
		p.Title = page.Title
		p.SpaceKey = page.SpaceKey
		p.Version = page.Version
		p.ParentID = page.ParentID
		p.LocalHash = localHash
		p.RemoteHash = localHash
		p.BaseHash = localHash
		p.SyncState = store.StateSynced
		p.LastSyncedAt = e.Now()
		p.LastError = ""
		return p
	}); err != nil {
		return PullResult{}, err
	}
	ds.LastSync = e.Now()

	if !e.DryRun {
		if err := e.Store.WriteState(ds); err != nil {
			return PullResult{}, err
		}
		if err := e.writeAncestor(id, []byte(md)); err != nil {
			return PullResult{}, err
		}
		if e.Index != nil {
			_ = e.Index.UpsertPage(id, path, page.Title)
		}
	}
	e.recordHistory(path, "pull", fmt.Sprintf("version %d", page.Version))
	e.Metrics.ObservePull(action)

	return PullResult{ID: id, Path: path, Action: action}, nil
}

// PullAll pulls every page currently reported by EnumerateScope within
// scope, creating local files for pages never seen before.
func (e *Engine) PullAll(ctx context.Context, scope string, force bool) ([]PullResult, error) {
	summaries, err := e.Remote.EnumerateScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("enumerate scope %s: %w", scope, err)
	}

	results := make([]PullResult, 0, len(summaries))
	for _, s := range summaries {
		r, err := e.Pull(ctx, s.ID, force)
		if err != nil {
			if _, diverged := err.(*syncerr.UsageError); diverged {
				results = append(results, r)
				continue
			}
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
