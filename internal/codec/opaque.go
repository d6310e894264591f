package codec

import (
	"fmt"
	"regexp"
)

// opaqueBlockRe matches a `::: opaque ... :::` fenced macro block, keeping it
// byte-exact across a round trip regardless of what the codec otherwise does
// to the surrounding text. Only blocks named "opaque" are matched; a
// `::: name ... :::` block with any other name is not extracted and goes
// through the codec's other rewrites like ordinary text.
var opaqueBlockRe = regexp.MustCompile(`(?s):::[ \t]*opaque[ \t]*\n(.*?)\n:::`)

const opaquePlaceholderFmt = "\x00OPAQUE%d\x00"

// extractOpaqueBlocks pulls every opaque block out of s, replacing each with
// a placeholder token, and returns the extracted block texts alongside the
// placeholder-bearing text.
func extractOpaqueBlocks(s string) ([]string, string) {
	var extracted []string
	out := opaqueBlockRe.ReplaceAllStringFunc(s, func(match string) string {
		extracted = append(extracted, match)
		return fmt.Sprintf(opaquePlaceholderFmt, len(extracted)-1)
	})
	return extracted, out
}

var opaquePlaceholderRe = regexp.MustCompile(`\x00OPAQUE(\d+)\x00`)

// restoreOpaqueBlocks reverses extractOpaqueBlocks, splicing the original
// block text back in place of its placeholder.
func restoreOpaqueBlocks(s string, extracted []string) string {
	return opaquePlaceholderRe.ReplaceAllStringFunc(s, func(token string) string {
		var i int
		fmt.Sscanf(token, "\x00OPAQUE%d\x00", &i)
		if i < 0 || i >= len(extracted) {
			return token
		}
		return extracted[i]
	})
}
