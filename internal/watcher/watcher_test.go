package watcher

import "testing"

func TestShouldIgnoreMatchesPattern(t *testing.T) {
	w := &Watcher{ignore: []string{"drafts/*", "*.tmp.md"}}

	cases := map[string]bool{
		"drafts/idea.md": true,
		"notes/idea.md":  false,
		"scratch.tmp.md": true,
	}
	for path, want := range cases {
		if got := w.shouldIgnore(path); got != want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", path, got, want)
		}
	}
}
