package codec

import (
	"fmt"
	"regexp"
	"strings"
)

// calloutHeaderRe matches the first line of an Obsidian-style callout
// blockquote: "> [!TYPE] Title" (title optional).
var calloutHeaderRe = regexp.MustCompile(`^>[ \t]*\[!([A-Za-z]+)\][ \t]*(.*)$`)

// calloutLineRe matches any blockquote continuation line belonging to the
// same callout.
var calloutLineRe = regexp.MustCompile(`^>[ \t]?(.*)$`)

// calloutsToPanel rewrites every Obsidian callout blockquote into a storage
// panel macro.
func (c *Codec) calloutsToPanel(body string) string {
	lines := strings.Split(body, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		m := calloutHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}

		calloutType, title := strings.ToLower(m[1]), strings.TrimSpace(m[2])
		var content []string
		j := i + 1
		for j < len(lines) {
			cm := calloutLineRe.FindStringSubmatch(lines[j])
			if cm == nil {
				break
			}
			content = append(content, cm[1])
			j++
		}

		out = append(out, panelOpenTag(calloutType, title))
		out = append(out, content...)
		out = append(out, ":::")
		i = j - 1
	}

	return strings.Join(out, "\n")
}

func panelOpenTag(calloutType, title string) string {
	if title == "" {
		return fmt.Sprintf("::: panel type=%s", calloutType)
	}
	return fmt.Sprintf("::: panel type=%s title=%q", calloutType, title)
}

var (
	panelOpenRe  = regexp.MustCompile(`^::: panel type=(\w+)(?: title=(".*"))?\s*$`)
	panelCloseRe = regexp.MustCompile(`^:::\s*$`)
)

// panelToCallouts is the inverse of calloutsToPanel.
func (c *Codec) panelToCallouts(body string) string {
	lines := strings.Split(body, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		m := panelOpenRe.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}

		calloutType := strings.ToUpper(m[1])
		title := ""
		if m[2] != "" {
			title = strings.Trim(m[2], `"`)
		}

		header := fmt.Sprintf("> [!%s]", calloutType)
		if title != "" {
			header += " " + title
		}
		out = append(out, header)

		j := i + 1
		for j < len(lines) && !panelCloseRe.MatchString(lines[j]) {
			if lines[j] == "" {
				out = append(out, ">")
			} else {
				out = append(out, "> "+lines[j])
			}
			j++
		}
		i = j
	}

	return strings.Join(out, "\n")
}

var (
	detailsOpenRe  = regexp.MustCompile(`^<details>\s*$`)
	summaryRe      = regexp.MustCompile(`^<summary>(.*)</summary>\s*$`)
	detailsCloseRe = regexp.MustCompile(`^</details>\s*$`)
)

// detailsToExpand rewrites an HTML <details><summary> block into a storage
// expand macro.
func detailsToExpand(body string) string {
	lines := strings.Split(body, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		if !detailsOpenRe.MatchString(lines[i]) || i+1 >= len(lines) {
			out = append(out, lines[i])
			continue
		}
		sm := summaryRe.FindStringSubmatch(lines[i+1])
		if sm == nil {
			out = append(out, lines[i])
			continue
		}

		out = append(out, fmt.Sprintf("::: expand title=%q", strings.TrimSpace(sm[1])))
		j := i + 2
		for j < len(lines) && !detailsCloseRe.MatchString(lines[j]) {
			out = append(out, lines[j])
			j++
		}
		out = append(out, ":::")
		i = j
	}

	return strings.Join(out, "\n")
}

var expandOpenRe = regexp.MustCompile(`^::: expand title=(".*")\s*$`)

// expandToDetails is the inverse of detailsToExpand.
func expandToDetails(body string) string {
	lines := strings.Split(body, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		m := expandOpenRe.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}

		title := strings.Trim(m[1], `"`)
		out = append(out, "<details>", fmt.Sprintf("<summary>%s</summary>", title))
		j := i + 1
		for j < len(lines) && !panelCloseRe.MatchString(lines[j]) {
			out = append(out, lines[j])
			j++
		}
		out = append(out, "</details>")
		i = j
	}

	return strings.Join(out, "\n")
}
