package codec

import (
	"fmt"
	"regexp"
	"strings"
)

// Plain fenced code (``` or ```lang with no title) is a shared primitive
// between Markdown and storage text and passes through untouched; only the
// extended form carrying a title attribute needs translating.
var fenceWithTitleRe = regexp.MustCompile("^```([A-Za-z0-9_+-]*)[ \t]+title=\"([^\"]*)\"\\s*$")

func (c *Codec) codeFencesToMacro(body string) string {
	lines := strings.Split(body, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		m := fenceWithTitleRe.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}

		lang, title := m[1], m[2]
		if lang == "" {
			out = append(out, fmt.Sprintf("::: code title=%q", title))
		} else {
			out = append(out, fmt.Sprintf("::: code lang=%s title=%q", lang, title))
		}

		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) != "```" {
			out = append(out, lines[j])
			j++
		}
		out = append(out, ":::")
		i = j
	}

	return strings.Join(out, "\n")
}

var codeMacroRe = regexp.MustCompile(`^::: code(?: lang=([A-Za-z0-9_+-]+))? title="([^"]*)"\s*$`)

func (c *Codec) macroToCodeFences(body string) string {
	lines := strings.Split(body, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		m := codeMacroRe.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}

		lang, title := m[1], m[2]
		out = append(out, fmt.Sprintf("```%s title=%q", lang, title))

		j := i + 1
		for j < len(lines) && !panelCloseRe.MatchString(lines[j]) {
			out = append(out, lines[j])
			j++
		}
		out = append(out, "```")
		i = j
	}

	return strings.Join(out, "\n")
}
