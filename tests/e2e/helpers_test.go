// Package e2e exercises the reconciliation engine through the same
// collaborator seams internal/cli wires in production, but against an
// in-memory RemoteStore instead of a live backend, so these scenarios run
// without network access or credentials.
package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BjoernSchotte/atlcli/internal/reconcile"
	"github.com/BjoernSchotte/atlcli/internal/remote"
	"github.com/BjoernSchotte/atlcli/internal/remote/memstore"
	"github.com/BjoernSchotte/atlcli/internal/store"
)

// fixture bundles a freshly initialized tracked directory, its Engine and
// the in-memory remote backing it.
type fixture struct {
	t      *testing.T
	Root   string
	Remote *memstore.Store
	Engine *reconcile.Engine
}

// newFixture creates a tracked root under t.TempDir and an Engine wired to
// an empty in-memory remote.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	st, err := store.Init(root, "DOCS", "https://wiki.example.test", "default", store.Settings{
		AutoCreatePages:   true,
		PreserveHierarchy: true,
	})
	if err != nil {
		t.Fatalf("store.Init() error = %v", err)
	}

	rs := memstore.New()
	e := reconcile.New(root, st, rs, nil, nil)

	return &fixture{t: t, Root: root, Remote: rs, Engine: e}
}

// writeFile writes relPath under the tracked root, creating parent
// directories as needed.
func (f *fixture) writeFile(relPath, content string) {
	f.t.Helper()
	full := filepath.Join(f.Root, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		f.t.Fatalf("mkdir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		f.t.Fatalf("write %s: %v", relPath, err)
	}
}

// removeFile deletes relPath under the tracked root.
func (f *fixture) removeFile(relPath string) {
	f.t.Helper()
	if err := os.Remove(filepath.Join(f.Root, relPath)); err != nil {
		f.t.Fatalf("remove %s: %v", relPath, err)
	}
}

// readFile reads relPath under the tracked root.
func (f *fixture) readFile(relPath string) string {
	f.t.Helper()
	data, err := os.ReadFile(filepath.Join(f.Root, relPath))
	if err != nil {
		f.t.Fatalf("read %s: %v", relPath, err)
	}
	return string(data)
}

// seedPage inserts a page directly into the remote, as if it already
// existed before the tracked directory was ever initialized.
func (f *fixture) seedPage(id, title, storageText string) {
	f.Remote.Seed(remote.Page{ID: id, Title: title, SpaceKey: "DOCS", Version: 1, StorageText: storageText})
}

func testContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 30*time.Second)
}
