package codec

import (
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
)

// emoticonsToEmoji rewrites ":shortcode:" tokens into their literal emoji
// character for storage text. gomoji's public API decodes emoji to slugs but
// not the reverse, so encoding uses this fixed table of the shortcodes
// actually seen in the corpus; anything unrecognized passes through
// unchanged.
func emoticonsToEmoji(s string) string {
	return shortcodeRe.ReplaceAllStringFunc(s, func(tok string) string {
		slug := strings.Trim(tok, ":")
		if ch, ok := shortcodeToEmoji[slug]; ok {
			return ch
		}
		return tok
	})
}

// emojiToEmoticons rewrites every emoji character in s into its ":slug:"
// shortcode, using gomoji to both detect and name each match.
func emojiToEmoticons(s string) string {
	matches := gomoji.FindAll(s)
	if len(matches) == 0 {
		return s
	}
	out := s
	for _, m := range matches {
		out = strings.ReplaceAll(out, m.Character, ":"+m.Slug+":")
	}
	return out
}

var shortcodeRe = regexp.MustCompile(`:[a-z0-9_+-]+:`)

var shortcodeToEmoji = map[string]string{
	"smile":            "🙂",
	"grinning":         "😀",
	"laughing":         "😆",
	"heart":            "❤️",
	"thumbsup":         "👍",
	"+1":               "👍",
	"thumbsdown":       "👎",
	"-1":               "👎",
	"rocket":           "🚀",
	"tada":             "🎉",
	"warning":          "⚠️",
	"white_check_mark": "✅",
	"x":                "❌",
	"fire":             "🔥",
	"bulb":             "💡",
	"bug":              "🐛",
	"eyes":             "👀",
	"pencil2":          "✏️",
	"memo":             "📝",
	"construction":     "🚧",
}
