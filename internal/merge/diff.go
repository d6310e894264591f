package merge

import "sort"

// hunk describes a change against the ancestor: ancestor lines [aStart,aEnd)
// are replaced by side lines [bStart,bEnd). aStart == aEnd marks a pure
// insertion at that ancestor position; bStart == bEnd marks a pure deletion.
type hunk struct {
	aStart, aEnd int
	bStart, bEnd int
}

// diff computes the line-level hunks needed to turn a into b, by first
// computing a longest-common-subsequence alignment and then treating every
// gap between matched lines as a hunk.
func diff(a, b []string) []hunk {
	matches := lcs(a, b)

	var hunks []hunk
	prevA, prevB := 0, 0
	for _, m := range matches {
		ai, bi := m[0], m[1]
		if ai > prevA || bi > prevB {
			hunks = append(hunks, hunk{aStart: prevA, aEnd: ai, bStart: prevB, bEnd: bi})
		}
		prevA, prevB = ai+1, bi+1
	}
	if prevA < len(a) || prevB < len(b) {
		hunks = append(hunks, hunk{aStart: prevA, aEnd: len(a), bStart: prevB, bEnd: len(b)})
	}
	return hunks
}

// lcs returns matched index pairs (i, j) with a[i] == b[j] forming a longest
// common subsequence, in increasing order of both indices.
func lcs(a, b []string) [][2]int {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return nil
	}

	dp := make([][]int32, n+1)
	for i := range dp {
		dp[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var matches [][2]int
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			matches = append(matches, [2]int{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return matches
}

// reconstruct returns the side's lines corresponding to the ancestor range
// [start, end), using hunks (sorted by aStart, non-overlapping, as produced
// by diff) to substitute changed sub-ranges and aLines for untouched ones.
func reconstruct(start, end int, hunks []hunk, aLines, bLines []string) []string {
	var out []string
	pos := start
	for _, h := range hunks {
		if h.aStart == h.aEnd {
			// Pure insertion: relevant if its position falls within the
			// (inclusive) cluster bounds.
			if h.aStart < start || h.aStart > end {
				continue
			}
		} else if h.aEnd <= start || h.aStart >= end {
			continue
		}
		hs := h.aStart
		if hs < start {
			hs = start
		}
		if hs > pos {
			out = append(out, aLines[pos:hs]...)
		}
		out = append(out, bLines[h.bStart:h.bEnd]...)
		he := h.aEnd
		if he > end {
			he = end
		}
		if he > pos {
			pos = he
		}
	}
	if pos < end {
		out = append(out, aLines[pos:end]...)
	}
	return out
}

// cluster merges overlapping or touching hunk ranges (from both sides) into
// disjoint ancestor-coordinate regions, so that a change on one side and an
// overlapping or adjacent change on the other are resolved together.
func cluster(localHunks, remoteHunks []hunk) []struct{ start, end int } {
	type rng struct{ start, end int }
	var ranges []rng
	for _, h := range localHunks {
		ranges = append(ranges, rng{h.aStart, h.aEnd})
	}
	for _, h := range remoteHunks {
		ranges = append(ranges, rng{h.aStart, h.aEnd})
	}
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].start != ranges[j].start {
			return ranges[i].start < ranges[j].start
		}
		return ranges[i].end < ranges[j].end
	})

	var merged []struct{ start, end int }
	cur := struct{ start, end int }{ranges[0].start, ranges[0].end}
	for _, r := range ranges[1:] {
		if r.start <= cur.end {
			if r.end > cur.end {
				cur.end = r.end
			}
			continue
		}
		merged = append(merged, cur)
		cur = struct{ start, end int }{r.start, r.end}
	}
	merged = append(merged, cur)
	return merged
}

func merge3(aLines, lLines, rLines []string, localHunks, remoteHunks []hunk) Result {
	clusters := cluster(localHunks, remoteHunks)

	var out []string
	conflicts := 0
	pos := 0
	for _, c := range clusters {
		if c.start > pos {
			out = append(out, aLines[pos:c.start]...)
		}

		localSeg := reconstruct(c.start, c.end, localHunks, aLines, lLines)
		remoteSeg := reconstruct(c.start, c.end, remoteHunks, aLines, rLines)
		ancestorSeg := aLines[c.start:c.end]

		switch {
		case linesEqual(localSeg, remoteSeg), linesEqual(remoteSeg, ancestorSeg):
			out = append(out, localSeg...)
		case linesEqual(localSeg, ancestorSeg):
			out = append(out, remoteSeg...)
		default:
			conflicts++
			out = append(out, markerLocalStart)
			out = append(out, localSeg...)
			out = append(out, markerSplit)
			out = append(out, remoteSeg...)
			out = append(out, markerRemoteEnd)
		}

		pos = c.end
	}
	if pos < len(aLines) {
		out = append(out, aLines[pos:]...)
	}

	text := ""
	if len(out) > 0 {
		text = joinLines(out)
	}
	return Result{Text: text, Conflicts: conflicts}
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out + "\n"
}
