// Package vaultwalk scans a tracked directory for Markdown files, skipping
// the control directory and anything matched by an ignore pattern.
package vaultwalk

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File is one discovered Markdown file.
type File struct {
	// Path is relative to the tracked root.
	Path    string
	AbsPath string
	Info    fs.FileInfo
}

// Scanner walks a tracked root for Markdown files.
type Scanner struct {
	root   string
	ignore []string
}

// New creates a Scanner rooted at root.
func New(root string, ignore []string) *Scanner {
	return &Scanner{root: root, ignore: ignore}
}

// Root returns the scanner's root directory.
func (s *Scanner) Root() string { return s.root }

// Scan walks the whole tree and returns every tracked Markdown file.
func (s *Scanner) Scan(ctx context.Context) ([]File, error) {
	var files []File

	err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(entry.Name(), ".md") {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if s.shouldIgnore(relPath) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		files = append(files, File{Path: relPath, AbsPath: path, Info: info})
		return nil
	})

	return files, err
}

// ReadFile reads the content of relPath.
func (s *Scanner) ReadFile(relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, relPath))
}

// Exists reports whether relPath exists under the root.
func (s *Scanner) Exists(relPath string) bool {
	_, err := os.Stat(filepath.Join(s.root, relPath))
	return err == nil
}

func (s *Scanner) shouldIgnore(path string) bool {
	for _, pattern := range s.ignore {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		if strings.Contains(pattern, "**") {
			simple := strings.ReplaceAll(pattern, "**", "*")
			if matched, _ := filepath.Match(simple, path); matched {
				return true
			}
		}
	}
	return false
}
