package codec

import "regexp"

// wikilinkRe matches Obsidian-style smart links: "[[target]]",
// "[[target|alias]]", and the embed form "![[target]]". Parsing happens
// through the wikilink.Extender registered on Codec.md for validation; the
// actual substitution is done here since it only ever rewrites the link
// syntax, never the surrounding prose.
var wikilinkRe = regexp.MustCompile(`(!?)\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// wikilinksToSmartLinks rewrites Markdown wiki-links into storage smart-link
// macros, resolving each target to a remote page id when a resolver is
// configured.
func (c *Codec) wikilinksToSmartLinks(body string) string {
	return wikilinkRe.ReplaceAllStringFunc(body, func(match string) string {
		m := wikilinkRe.FindStringSubmatch(match)
		embed, target, alias := m[1] == "!", m[2], m[3]

		id := target
		if c.links != nil {
			if resolved, ok := c.links.Resolve(target); ok {
				id = resolved
			}
		}

		kind := "link"
		if embed {
			kind = "embed"
		}
		if alias != "" {
			return "{" + kind + ":" + id + "|" + alias + "}"
		}
		return "{" + kind + ":" + id + "}"
	})
}

var smartLinkRe = regexp.MustCompile(`\{(link|embed):([^|}]+)(?:\|([^}]+))?\}`)

// smartLinksToWikilinks is the inverse of wikilinksToSmartLinks.
func (c *Codec) smartLinksToWikilinks(body string) string {
	return smartLinkRe.ReplaceAllStringFunc(body, func(match string) string {
		m := smartLinkRe.FindStringSubmatch(match)
		kind, id, alias := m[1], m[2], m[3]

		target := id
		if c.paths != nil {
			if path, ok := c.paths.LookupPath(id); ok {
				target = path
			}
		}

		prefix := ""
		if kind == "embed" {
			prefix = "!"
		}
		if alias != "" {
			return prefix + "[[" + target + "|" + alias + "]]"
		}
		return prefix + "[[" + target + "]]"
	})
}
