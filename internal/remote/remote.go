// Package remote defines the RemoteStore collaborator: the abstract wiki
// backend the reconciliation engine pulls from and pushes to. Concrete
// backends live in sibling packages (notionstore, memstore).
package remote

import "context"

// Page is the RemoteStore's view of one remote page.
type Page struct {
	ID          string
	Title       string
	SpaceKey    string
	Version     int
	StorageText string
	ParentID    string
}

// PageSummary is the lightweight shape returned by search and scope
// enumeration, where the full storage text is not needed.
type PageSummary struct {
	ID      string
	Title   string
	Version int
}

// CreateInput is the payload for CreatePage.
type CreateInput struct {
	SpaceKey    string
	Title       string
	StorageText string
	ParentID    string // optional
}

// UpdateInput is the payload for UpdatePage. Version is the version the
// caller last observed; a server using optimistic concurrency may reject a
// stale value.
type UpdateInput struct {
	ID          string
	Title       string
	StorageText string
	Version     int
}

// Store is the RemoteStore contract: get_page, search_pages, create_page,
// update_page, enumerate_scope.
type Store interface {
	// GetPage fetches one page by id.
	GetPage(ctx context.Context, id string) (Page, error)

	// SearchPages runs a remote text search, capped at limit results (0 =
	// backend default).
	SearchPages(ctx context.Context, query string, limit int) ([]PageSummary, error)

	// CreatePage creates a new page and returns its assigned id and
	// starting version.
	CreatePage(ctx context.Context, in CreateInput) (Page, error)

	// UpdatePage writes a new version of an existing page. The returned
	// Page.Version is the new version number (recorded + 1).
	UpdatePage(ctx context.Context, in UpdateInput) (Page, error)

	// EnumerateScope lists every page currently in scope, reflecting
	// current server state; used by the poller to detect remote changes.
	EnumerateScope(ctx context.Context, scope string) ([]PageSummary, error)
}
