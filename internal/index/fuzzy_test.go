package index

import "testing"

func TestFindExactMatch(t *testing.T) {
	pages := []PageEntry{
		{ID: "P1", Path: "intro.md", Title: "Intro"},
		{ID: "P2", Path: "guide.md", Title: "Guide"},
	}
	matches := Find("intro", pages, 0)
	if len(matches) == 0 || matches[0].PageID != "P1" {
		t.Fatalf("Find() = %+v", matches)
	}
}

func TestFindSubsequenceMatch(t *testing.T) {
	pages := []PageEntry{
		{ID: "P1", Path: "introduction.md", Title: "Introduction"},
	}
	// "intro" is a contiguous run inside "Introduction".
	matches := Find("intro", pages, 0)
	if len(matches) != 1 || matches[0].PageID != "P1" {
		t.Fatalf("Find() = %+v", matches)
	}
}

func TestFindScatteredSubsequence(t *testing.T) {
	pages := []PageEntry{
		{ID: "P1", Path: "guide.md", Title: "Guide"},
	}
	// "gd" appears in order in "Guide" (G..d..) but not contiguously.
	matches := Find("gd", pages, 0)
	if len(matches) != 1 || matches[0].PageID != "P1" {
		t.Fatalf("Find() = %+v", matches)
	}
}

func TestFindRanksContiguousRunsHigher(t *testing.T) {
	pages := []PageEntry{
		{ID: "P1", Path: "guide.md", Title: "Grand Design"}, // "gd" scattered
		{ID: "P2", Path: "guide2.md", Title: "Guide"},       // "gd" is g_u_i_d_e, still scattered
		{ID: "P3", Path: "guide3.md", Title: "gd-notes"},    // "gd" contiguous
	}
	matches := Find("gd", pages, 0)
	if len(matches) < 3 {
		t.Fatalf("Find() = %+v, want all three candidates", matches)
	}
	if matches[0].PageID != "P3" {
		t.Fatalf("Find()[0] = %+v, want the contiguous match ranked first", matches[0])
	}
}

func TestFindNoMatch(t *testing.T) {
	pages := []PageEntry{
		{ID: "P1", Path: "guide.md", Title: "Guide"},
	}
	matches := Find("zzz-unrelated-query-zzz", pages, 0)
	if len(matches) != 0 {
		t.Fatalf("Find() = %+v, want none", matches)
	}
}

func TestFindRespectsLimit(t *testing.T) {
	pages := []PageEntry{
		{ID: "P1", Path: "alpha.md", Title: "Alpha"},
		{ID: "P2", Path: "alpha-two.md", Title: "Alpha Two"},
		{ID: "P3", Path: "alpha-three.md", Title: "Alpha Three"},
	}
	matches := Find("alpha", pages, 2)
	if len(matches) != 2 {
		t.Fatalf("Find() returned %d matches, want 2", len(matches))
	}
}

func TestFindFallsBackToFilenameWithoutTitle(t *testing.T) {
	pages := []PageEntry{
		{ID: "P1", Path: "notes/design-doc.md"},
	}
	matches := Find("design", pages, 0)
	if len(matches) != 1 || matches[0].Name != "design-doc" {
		t.Fatalf("Find() = %+v", matches)
	}
}
