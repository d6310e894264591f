// Package reconcile implements the top-level reconciliation engine: the
// sole writer of the State Store and the tracked directory, coordinating
// the State Store, RemoteStore, FormatCodec and Merge Engine collaborators.
package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BjoernSchotte/atlcli/internal/codec"
	"github.com/BjoernSchotte/atlcli/internal/index"
	"github.com/BjoernSchotte/atlcli/internal/metrics"
	"github.com/BjoernSchotte/atlcli/internal/remote"
	"github.com/BjoernSchotte/atlcli/internal/store"
	"github.com/BjoernSchotte/atlcli/internal/syncerr"
	"github.com/BjoernSchotte/atlcli/internal/vaultwalk"
	"github.com/BjoernSchotte/atlcli/pkg/frontmatter"
)

// Engine is the reconciliation engine: the only component that mutates the
// State Store or writes under the tracked root.
type Engine struct {
	Root    string
	Store   *store.Store
	Remote  remote.Store
	Codec   *codec.Codec
	Index   *index.Index // optional, nil when no secondary cache is open
	Scanner *vaultwalk.Scanner
	Now     func() time.Time

	// Metrics, when set, receives per-operation counters. A nil Metrics is
	// safe to leave unset; every call site guards through its nil-receiver
	// methods.
	Metrics *metrics.Metrics

	// DryRun, when true, suppresses every write: to disk, to the State
	// Store, and to the RemoteStore. Reads and planning proceed normally.
	DryRun bool
}

// New creates an Engine, wiring a Codec whose smart-link resolution reads
// live from the State Store. idx may be nil.
func New(root string, st *store.Store, rs remote.Store, idx *index.Index, ignore []string) *Engine {
	e := &Engine{
		Root:    root,
		Store:   st,
		Remote:  rs,
		Index:   idx,
		Scanner: vaultwalk.New(root, ignore),
		Now:     time.Now,
	}
	resolver := &stateResolver{e: e}
	e.Codec = codec.New(resolver, resolver)
	return e
}

// Init creates a new tracked directory at root.
func Init(root, spaceKey, baseURL, profile string, settings store.Settings) (*store.Store, error) {
	return store.Init(root, spaceKey, baseURL, profile, settings)
}

func (e *Engine) recordHistory(path, action, details string) {
	if e.Index == nil {
		return
	}
	_ = e.Index.RecordHistory(index.HistoryEntry{Path: path, Action: action, At: e.Now(), Details: details})
}

// readTrackedFile reads relPath and splits it into frontmatter and body.
func (e *Engine) readTrackedFile(relPath string) (frontmatter.Frontmatter, []byte, error) {
	raw, err := os.ReadFile(filepath.Join(e.Root, relPath))
	if err != nil {
		return nil, nil, err
	}
	fm, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter of %s: %w", relPath, err)
	}
	return fm, body, nil
}

// writeTrackedFile atomically rewrites relPath with fm prepended to body.
func (e *Engine) writeTrackedFile(relPath string, fm frontmatter.Frontmatter, body []byte) error {
	if e.DryRun {
		return nil
	}

	full, err := frontmatter.Prepend(fm, body)
	if err != nil {
		return fmt.Errorf("serialize frontmatter for %s: %w", relPath, err)
	}
	return e.writeFileAtomic(relPath, full)
}

func (e *Engine) writeFileAtomic(relPath string, data []byte) error {
	if e.DryRun {
		return nil
	}

	target := filepath.Join(e.Root, relPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", relPath, err)
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file for %s: %w", relPath, err)
	}
	return os.Rename(tmp, target)
}

func (e *Engine) writeAncestor(id string, normalizedBody []byte) error {
	if e.DryRun {
		return nil
	}
	return e.Store.WriteAncestor(id, string(normalizedBody))
}

// computeSyncState applies the spec's per-page state table.
func computeSyncState(localChanged, remoteChanged bool) store.SyncState {
	switch {
	case !localChanged && !remoteChanged:
		return store.StateSynced
	case localChanged && !remoteChanged:
		return store.StateLocalModified
	case !localChanged && remoteChanged:
		return store.StateRemoteModified
	default:
		return store.StateConflict
	}
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// titleToPath derives a tracked-file path from a page title, used by pull
// when creating a file for a previously unseen remote page.
func titleToPath(title string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug + ".md"
}

// firstHeading extracts the text of the first level-1 Markdown heading in
// body, used to derive a title for add when none is supplied.
func firstHeading(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// errNotInitialized returns the error for an operation run against a root
// with no tracked-directory control directory.
func errNotInitialized() error {
	return syncerr.Usage("root is not initialized (run init first)")
}
