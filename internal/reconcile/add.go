package reconcile

import (
	"context"
	"fmt"

	"github.com/BjoernSchotte/atlcli/internal/fingerprint"
	"github.com/BjoernSchotte/atlcli/internal/remote"
	"github.com/BjoernSchotte/atlcli/internal/store"
	"github.com/BjoernSchotte/atlcli/internal/syncerr"
)

// Add tracks a new local Markdown file: creating the remote page, writing
// an "id" frontmatter key into the file, and recording the initial
// PageState. relPath must already exist under the tracked root and must
// not already carry an "id" key.
func (e *Engine) Add(ctx context.Context, relPath, title, parentID string) (PullResult, error) {
	ds, err := e.Store.ReadState()
	if err != nil {
		return PullResult{}, err
	}
	if existing, ok := ds.PathIndex[relPath]; ok {
		return PullResult{}, syncerr.Usage("%s is already tracked as page %s", relPath, existing)
	}

	fm, body, err := e.readTrackedFile(relPath)
	if err != nil {
		return PullResult{}, fmt.Errorf("read %s: %w", relPath, err)
	}
	if fm.ID() != "" {
		return PullResult{}, syncerr.Usage("%s already carries an id; use pull instead", relPath)
	}

	if title == "" {
		title = firstHeading(body)
	}
	if title == "" {
		title = relPath
	}
	if parentID == "" {
		parentID = ds.Settings.DefaultParentID
	}

	storageText, err := e.Codec.MarkdownToStorage(string(body))
	if err != nil {
		return PullResult{}, fmt.Errorf("encode %s: %w", relPath, err)
	}

	if e.DryRun {
		return PullResult{Path: relPath, Action: "would-create"}, nil
	}

	page, err := e.Remote.CreatePage(ctx, remote.CreateInput{
		SpaceKey:    ds.SpaceKey,
		Title:       title,
		StorageText: storageText,
		ParentID:    parentID,
	})
	if err != nil {
		return PullResult{}, fmt.Errorf("create page for %s: %w", relPath, err)
	}

	if fm == nil {
		fm = make(map[string]any)
	}
	fm.SetID(page.ID)
	fm.SetTitle(title)
	if err := e.writeTrackedFile(relPath, fm, body); err != nil {
		return PullResult{}, err
	}

	localHash := fingerprint.Fingerprint(body)
	if err := store.UpdatePage(ds, page.ID, func(p store.PageState) store.PageState {
		p.Path = relPath
		p.Title = title
		p.SpaceKey = ds.SpaceKey
		p.Version = page.Version
		p.ParentID = parentID
		p.LocalHash = localHash
		p.RemoteHash = localHash
		p.BaseHash = localHash
		p.SyncState = store.StateSynced
		p.LastSyncedAt = e.Now()
		return p
	}); err != nil {
		return PullResult{}, err
	}
	ds.LastSync = e.Now()
	if err := e.Store.WriteState(ds); err != nil {
		return PullResult{}, err
	}
	if err := e.writeAncestor(page.ID, body); err != nil {
		return PullResult{}, err
	}
	if e.Index != nil {
		_ = e.Index.UpsertPage(page.ID, relPath, title)
	}
	e.recordHistory(relPath, "add", fmt.Sprintf("created page %s", page.ID))

	return PullResult{ID: page.ID, Path: relPath, Action: "created"}, nil
}

// Untrack removes a page from the State Store without deleting the local
// file or the remote page.
func (e *Engine) Untrack(id string) error {
	ds, err := e.Store.ReadState()
	if err != nil {
		return err
	}
	p, ok := ds.Pages[id]
	if !ok {
		return syncerr.Usage("page %s is not tracked", id)
	}
	if e.DryRun {
		return nil
	}

	store.RemovePage(ds, id)
	if err := e.Store.WriteState(ds); err != nil {
		return err
	}
	if err := e.Store.DeleteAncestor(id); err != nil {
		return err
	}
	if e.Index != nil {
		_ = e.Index.RemovePage(id)
	}
	e.recordHistory(p.Path, "untrack", "")
	return nil
}
