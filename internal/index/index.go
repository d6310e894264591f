// Package index is the secondary, sqlite-backed cache layered on top of the
// primary state store: an operational history log and a page title/path
// search cache. It is never authoritative: state.json is. Nothing rebuilds
// it automatically on loss or corruption; Rebuild replaces the search cache
// from a snapshot the caller supplies.
package index

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Index wraps the sqlite connection backing one tracked root's secondary
// cache at .atlcli/index.db.
type Index struct {
	conn *sql.DB
}

// HistoryEntry is one recorded reconciliation decision.
type HistoryEntry struct {
	Path    string
	Action  string // "pull", "push", "conflict", "resolve", "add", "untrack", "rename", "remote-deleted"
	At      time.Time
	Details string
}

// PageEntry is one row of the title/path search cache.
type PageEntry struct {
	ID   string
	Path string
	Title string
}

// Open opens or creates the index database at path.
func Open(path string) (*Index, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	idx := &Index{conn: conn}
	if err := idx.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	return idx, nil
}

// Close closes the underlying connection.
func (idx *Index) Close() error {
	return idx.conn.Close()
}

func (idx *Index) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY,
		path TEXT NOT NULL,
		action TEXT NOT NULL,
		at INTEGER NOT NULL,
		details TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_history_path ON history(path);

	CREATE TABLE IF NOT EXISTS pages (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		title TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_pages_path ON pages(path);
	`
	_, err := idx.conn.Exec(schema)
	return err
}

// RecordHistory appends one operational log entry.
func (idx *Index) RecordHistory(e HistoryEntry) error {
	_, err := idx.conn.Exec(
		`INSERT INTO history (path, action, at, details) VALUES (?, ?, ?, ?)`,
		e.Path, e.Action, e.At.Unix(), e.Details,
	)
	return err
}

// History returns every recorded entry for path, oldest first.
func (idx *Index) History(path string) ([]HistoryEntry, error) {
	rows, err := idx.conn.Query(
		`SELECT path, action, at, details FROM history WHERE path = ? ORDER BY at ASC`, path,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var at int64
		var details sql.NullString
		if err := rows.Scan(&e.Path, &e.Action, &at, &details); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.At = time.Unix(at, 0)
		e.Details = details.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertPage refreshes the search cache row for id.
func (idx *Index) UpsertPage(id, path, title string) error {
	_, err := idx.conn.Exec(`
		INSERT INTO pages (id, path, title) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET path = excluded.path, title = excluded.title
	`, id, path, title)
	return err
}

// RemovePage drops id from the search cache, used by untrack.
func (idx *Index) RemovePage(id string) error {
	_, err := idx.conn.Exec(`DELETE FROM pages WHERE id = ?`, id)
	return err
}

// AllPages returns every cached page entry.
func (idx *Index) AllPages() ([]PageEntry, error) {
	rows, err := idx.conn.Query(`SELECT id, path, title FROM pages ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()

	var entries []PageEntry
	for rows.Next() {
		var e PageEntry
		var title sql.NullString
		if err := rows.Scan(&e.ID, &e.Path, &title); err != nil {
			return nil, fmt.Errorf("scan page row: %w", err)
		}
		e.Title = title.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Rebuild replaces the pages table from a fresh path->(id,title) snapshot,
// used to recover the cache after loss or corruption since state.json
// remains authoritative.
func (idx *Index) Rebuild(pages map[string]PageEntry) error {
	tx, err := idx.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM pages`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear pages: %w", err)
	}
	for _, p := range pages {
		if _, err := tx.Exec(`INSERT INTO pages (id, path, title) VALUES (?, ?, ?)`, p.ID, p.Path, p.Title); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert page %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}
