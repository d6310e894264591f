package index

import (
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchResult is a candidate page scored against a search query.
type MatchResult struct {
	Path   string
	PageID string
	Name   string
	Score  int
	// MatchedIndexes holds the rune positions of Name that matched the
	// query, in order, so a caller can highlight them.
	MatchedIndexes []int
}

// pageSource adapts the cached page entries to fuzzy.Source: candidates are
// matched against title when one is recorded, falling back to the filename
// stem, so a search for a page's displayed title and a search for its file
// both work.
type pageSource struct {
	pages []PageEntry
	names []string
}

func newPageSource(pages []PageEntry) pageSource {
	names := make([]string, len(pages))
	for i, p := range pages {
		if p.Title != "" {
			names[i] = p.Title
		} else {
			names[i] = extractName(p.Path)
		}
	}
	return pageSource{pages: pages, names: names}
}

func (s pageSource) String(i int) string { return s.names[i] }
func (s pageSource) Len() int            { return len(s.names) }

// Find runs a fuzzy subsequence search for query over the cached page
// entries, returning matches sorted best-first, limited to maxResults (0 =
// no limit). Matching follows the same subsequence-with-bonuses model as a
// fuzzy command palette: the query's runes must appear in order somewhere
// in the candidate, with denser, earlier, word-boundary-aligned runs
// scoring higher than scattered ones.
func Find(query string, pages []PageEntry, maxResults int) []MatchResult {
	src := newPageSource(pages)
	matches := fuzzy.FindFrom(query, src)

	results := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		p := pages[m.Index]
		results = append(results, MatchResult{
			Path:           p.Path,
			PageID:         p.ID,
			Name:           src.names[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func extractName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, ".md")
}
