package vaultwalk

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScanSkipsControlDirAndIgnored(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, ".atlcli", "cache"), 0o755)
	os.WriteFile(filepath.Join(root, ".atlcli", "cache", "P1"), []byte("ancestor"), 0o644)
	os.WriteFile(filepath.Join(root, "intro.md"), []byte("# Intro\n"), 0o644)
	os.MkdirAll(filepath.Join(root, "drafts"), 0o755)
	os.WriteFile(filepath.Join(root, "drafts", "idea.md"), []byte("# Idea\n"), 0o644)
	os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not markdown"), 0o644)

	s := New(root, []string{"drafts/*"})
	files, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	if len(paths) != 1 || paths[0] != "intro.md" {
		t.Fatalf("paths = %v, want [intro.md]", paths)
	}
}
