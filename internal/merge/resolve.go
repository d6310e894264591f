package merge

import (
	"fmt"
	"strings"
)

// HasConflictMarkers reports whether text contains a conflict-marker
// region, regardless of whether a merge produced it.
func HasConflictMarkers(text string) bool {
	return strings.Contains(text, markerLocalStart) &&
		strings.Contains(text, markerSplit) &&
		strings.Contains(text, markerRemoteEnd)
}

// Accept is the side kept by Resolve when stripping a conflict region.
type Accept string

const (
	AcceptLocal  Accept = "local"
	AcceptRemote Accept = "remote"
)

// Resolve strips every conflict-marker region from text, keeping the local
// or remote side per accept. It returns an error if text has no conflict
// markers.
func Resolve(text string, accept Accept) (string, error) {
	if !HasConflictMarkers(text) {
		return "", fmt.Errorf("resolve: no conflict markers present")
	}

	lines := strings.Split(text, "\n")
	var out []string
	i := 0
	resolvedAny := false

	for i < len(lines) {
		if strings.HasPrefix(lines[i], markerLocalStart) {
			localLines, splitAt := collectUntil(lines, i+1, markerSplit)
			remoteLines, endAt := collectUntil(lines, splitAt+1, markerRemoteEnd)
			if splitAt >= len(lines) || endAt >= len(lines) {
				// Malformed region; keep as-is.
				out = append(out, lines[i])
				i++
				continue
			}
			if accept == AcceptLocal {
				out = append(out, localLines...)
			} else {
				out = append(out, remoteLines...)
			}
			resolvedAny = true
			i = endAt + 1
			continue
		}
		out = append(out, lines[i])
		i++
	}

	if !resolvedAny {
		return "", fmt.Errorf("resolve: no well-formed conflict region found")
	}

	result := strings.Join(out, "\n")
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result, nil
}

func collectUntil(lines []string, start int, marker string) ([]string, int) {
	var collected []string
	j := start
	for j < len(lines) && strings.TrimRight(lines[j], "\n") != marker {
		collected = append(collected, lines[j])
		j++
	}
	return collected, j
}
