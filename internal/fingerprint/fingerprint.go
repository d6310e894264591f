// Package fingerprint produces a canonical, byte-stable representation of
// Markdown body text for hashing and comparison, and the SHA-256 fingerprint
// over that representation.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	frontmatterDelim   = []byte("---")
	trailingWhitespace = regexp.MustCompile(`(?m)[ \t]+$`)
	blankLineRuns      = regexp.MustCompile(`\n{2,}`)
)

// Normalize applies the normalization rules in order:
//  1. Strip a leading frontmatter block if present.
//  2. Normalize line endings to a single linefeed.
//  3. Strip trailing whitespace on each line.
//  4. Collapse any run of >= 2 blank lines to exactly one blank line.
//  5. Ensure the text ends with exactly one linefeed.
func Normalize(content []byte) []byte {
	_, body := SplitFrontmatter(content)

	s := string(body)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = trailingWhitespace.ReplaceAllString(s, "")
	s = blankLineRuns.ReplaceAllString(s, "\n\n")
	s = strings.Trim(s, "\n")

	if s == "" {
		return nil
	}
	return []byte(s + "\n")
}

// Fingerprint returns the hex-encoded SHA-256 of the normalized content.
func Fingerprint(content []byte) string {
	normalized := Normalize(content)
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:])
}

// FingerprintNormalized hashes bytes that are already normalized (used by
// callers that normalize once and fingerprint multiple times).
func FingerprintNormalized(normalized []byte) string {
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:])
}

// SplitFrontmatter separates a leading frontmatter block (delimited by a
// line containing exactly "---", a payload, and a closing "---") from the
// body. Returns (frontmatter, body); frontmatter is nil if none was present.
func SplitFrontmatter(content []byte) (frontmatter, body []byte) {
	if !bytes.HasPrefix(content, frontmatterDelim) {
		return nil, content
	}
	if len(content) <= 3 || (content[3] != '\n' && !(len(content) > 4 && content[3] == '\r' && content[4] == '\n')) {
		return nil, content
	}

	rest := content[3:]
	rest = bytes.TrimPrefix(rest, []byte("\r\n"))
	rest = bytes.TrimPrefix(rest, []byte("\n"))

	idx := bytes.Index(rest, []byte("\n---\n"))
	if idx != -1 {
		return rest[:idx], rest[idx+5:]
	}
	idx = bytes.Index(rest, []byte("\n---\r\n"))
	if idx != -1 {
		return rest[:idx], rest[idx+6:]
	}
	// Frontmatter closing at end of file with no trailing body.
	if bytes.HasSuffix(rest, []byte("\n---")) {
		return rest[:len(rest)-4], nil
	}
	if bytes.HasSuffix(rest, []byte("\n---\n")) {
		return rest[:len(rest)-5], nil
	}
	return nil, content
}
