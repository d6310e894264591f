// Package notionstore adapts the Notion API to the remote.Store contract.
// Storage text is carried as a sequence of paragraph blocks, split on blank
// lines; this keeps the bridge to Notion's block model simple while leaving
// the FormatCodec free to produce any text shape it likes.
package notionstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/BjoernSchotte/atlcli/internal/remote"
)

// DefaultRateLimit matches Notion's documented 3 requests/second budget.
const DefaultRateLimit = 3

// Store is a remote.Store backed by the Notion API.
type Store struct {
	api     *notionapi.Client
	limiter *rate.Limiter
}

// Option configures a Store.
type Option func(*Store)

// WithRateLimit overrides the default requests-per-second budget.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(s *Store) {
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// New creates a Store authenticated with token.
func New(token string, opts ...Option) *Store {
	s := &Store{
		api:     notionapi.NewClient(notionapi.Token(token)),
		limiter: rate.NewLimiter(rate.Every(time.Second/DefaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) wait(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}

func (s *Store) GetPage(ctx context.Context, id string) (remote.Page, error) {
	if err := s.wait(ctx); err != nil {
		return remote.Page{}, fmt.Errorf("rate limit: %w", err)
	}
	page, err := s.api.Page.Get(ctx, notionapi.PageID(id))
	if err != nil {
		return remote.Page{}, fmt.Errorf("get page: %w", err)
	}

	blocks, err := s.getAllBlocks(ctx, id)
	if err != nil {
		return remote.Page{}, fmt.Errorf("get blocks: %w", err)
	}

	return remote.Page{
		ID:          id,
		Title:       pageTitle(page.Properties),
		SpaceKey:    parentSpaceKey(page.Parent),
		Version:     versionFromTimestamp(page.LastEditedTime),
		StorageText: blocksToStorageText(blocks),
		ParentID:    parentID(page.Parent),
	}, nil
}

func (s *Store) SearchPages(ctx context.Context, query string, limit int) ([]remote.PageSummary, error) {
	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := s.api.Search.Do(ctx, &notionapi.SearchRequest{
		Query: query,
		Filter: notionapi.SearchFilter{
			Property: "object",
			Value:    "page",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}

	var out []remote.PageSummary
	for _, obj := range resp.Results {
		page, ok := obj.(*notionapi.Page)
		if !ok {
			continue
		}
		out = append(out, remote.PageSummary{
			ID:      string(page.ID),
			Title:   pageTitle(page.Properties),
			Version: versionFromTimestamp(page.LastEditedTime),
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) CreatePage(ctx context.Context, in remote.CreateInput) (remote.Page, error) {
	if err := s.wait(ctx); err != nil {
		return remote.Page{}, fmt.Errorf("rate limit: %w", err)
	}

	parent := notionapi.Parent{Type: notionapi.ParentTypePageID, PageID: notionapi.PageID(in.ParentID)}
	titleKey := "title"
	if in.ParentID == "" {
		parent = notionapi.Parent{Type: notionapi.ParentTypeDatabaseID, DatabaseID: notionapi.DatabaseID(in.SpaceKey)}
		titleKey = "Name"
	}

	created, err := s.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: parent,
		Properties: notionapi.Properties{
			titleKey: notionapi.TitleProperty{Title: []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: in.Title}}}},
		},
	})
	if err != nil {
		return remote.Page{}, fmt.Errorf("create page: %w", err)
	}

	id := string(created.ID)
	if err := s.appendBlocks(ctx, id, storageTextToBlocks(in.StorageText)); err != nil {
		return remote.Page{ID: id}, fmt.Errorf("append blocks: %w", err)
	}

	return remote.Page{
		ID:          id,
		Title:       in.Title,
		SpaceKey:    in.SpaceKey,
		Version:     1,
		StorageText: in.StorageText,
		ParentID:    in.ParentID,
	}, nil
}

func (s *Store) UpdatePage(ctx context.Context, in remote.UpdateInput) (remote.Page, error) {
	existing, err := s.api.Page.Get(ctx, notionapi.PageID(in.ID))
	if err != nil {
		return remote.Page{}, fmt.Errorf("get existing page: %w", err)
	}

	titleKey := "title"
	if existing.Parent.Type != notionapi.ParentTypePageID {
		titleKey = "Name"
	}

	if err := s.wait(ctx); err != nil {
		return remote.Page{}, fmt.Errorf("rate limit: %w", err)
	}
	_, err = s.api.Page.Update(ctx, notionapi.PageID(in.ID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			titleKey: notionapi.TitleProperty{Title: []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: in.Title}}}},
		},
	})
	if err != nil {
		return remote.Page{}, fmt.Errorf("update properties: %w", err)
	}

	if err := s.replaceBlocks(ctx, in.ID, storageTextToBlocks(in.StorageText)); err != nil {
		return remote.Page{}, fmt.Errorf("replace blocks: %w", err)
	}

	return remote.Page{
		ID:          in.ID,
		Title:       in.Title,
		Version:     in.Version + 1,
		StorageText: in.StorageText,
	}, nil
}

func (s *Store) EnumerateScope(ctx context.Context, scope string) ([]remote.PageSummary, error) {
	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := s.api.Database.Query(ctx, notionapi.DatabaseID(scope), &notionapi.DatabaseQueryRequest{})
	if err != nil {
		return nil, fmt.Errorf("query scope %s: %w", scope, err)
	}

	out := make([]remote.PageSummary, 0, len(resp.Results))
	for _, page := range resp.Results {
		out = append(out, remote.PageSummary{
			ID:      string(page.ID),
			Title:   pageTitle(page.Properties),
			Version: versionFromTimestamp(page.LastEditedTime),
		})
	}
	return out, nil
}

func (s *Store) getAllBlocks(ctx context.Context, blockID string) ([]notionapi.Block, error) {
	var all []notionapi.Block
	var cursor notionapi.Cursor
	for {
		if err := s.wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		resp, err := s.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{StartCursor: cursor, PageSize: 100})
		if err != nil {
			return nil, fmt.Errorf("get children: %w", err)
		}
		all = append(all, resp.Results...)
		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
	return all, nil
}

func (s *Store) appendBlocks(ctx context.Context, pageID string, blocks []notionapi.Block) error {
	const batchSize = 100
	for i := 0; i < len(blocks); i += batchSize {
		end := i + batchSize
		if end > len(blocks) {
			end = len(blocks)
		}
		if err := s.wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		if _, err := s.api.Block.AppendChildren(ctx, notionapi.BlockID(pageID), &notionapi.AppendBlockChildrenRequest{Children: blocks[i:end]}); err != nil {
			return fmt.Errorf("append batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

func (s *Store) replaceBlocks(ctx context.Context, pageID string, blocks []notionapi.Block) error {
	existing, err := s.getAllBlocks(ctx, pageID)
	if err != nil {
		return fmt.Errorf("list existing blocks: %w", err)
	}
	for _, b := range existing {
		id := blockID(b)
		if id == "" {
			continue
		}
		if err := s.wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		if _, err := s.api.Block.Delete(ctx, notionapi.BlockID(id)); err != nil {
			return fmt.Errorf("delete block %s: %w", id, err)
		}
	}
	return s.appendBlocks(ctx, pageID, blocks)
}

var _ remote.Store = (*Store)(nil)
