// Package merge implements the three-way (ancestor, local, remote) text
// merge used by the reconciliation engine when a page has diverged on both
// sides since the last sync.
package merge

import "strings"

// Result is the outcome of a three-way merge.
type Result struct {
	// Text is the merged text. When Conflicts > 0 it contains one or more
	// conflict-marker regions; otherwise it is the clean merge output.
	Text string
	// Conflicts is the number of unresolved conflict regions.
	Conflicts int
}

// Clean reports whether the merge produced no conflict regions.
func (r Result) Clean() bool { return r.Conflicts == 0 }

const (
	markerLocalStart = "<<<<<<< LOCAL"
	markerSplit       = "======="
	markerRemoteEnd   = ">>>>>>> REMOTE"
)

// Merge performs a three-way merge of ancestor, local and remote text and
// returns a deterministic Result. hasAncestor distinguishes "ancestor is the
// empty string" from "no ancestor is known" (the latter forces a single
// whole-file conflict region per the engine's edge-case policy).
func Merge(ancestor, local, remote string, hasAncestor bool) Result {
	if local == remote {
		return Result{Text: local}
	}
	if !hasAncestor {
		return Result{
			Text:      conflictRegion(local, remote),
			Conflicts: 1,
		}
	}
	if local == ancestor {
		return Result{Text: remote}
	}
	if remote == ancestor {
		return Result{Text: local}
	}

	aLines := splitLines(ancestor)
	lLines := splitLines(local)
	rLines := splitLines(remote)

	localOps := diff(aLines, lLines)
	remoteOps := diff(aLines, rLines)

	return merge3(aLines, lLines, rLines, localOps, remoteOps)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	// A trailing "\n" produces one spurious empty trailing element from
	// strings.Split; drop it so line counts refer to actual text lines.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func conflictRegion(local, remote string) string {
	var b strings.Builder
	b.WriteString(markerLocalStart)
	b.WriteString("\n")
	if local != "" {
		b.WriteString(local)
		if !strings.HasSuffix(local, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString(markerSplit)
	b.WriteString("\n")
	if remote != "" {
		b.WriteString(remote)
		if !strings.HasSuffix(remote, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString(markerRemoteEnd)
	b.WriteString("\n")
	return b.String()
}
