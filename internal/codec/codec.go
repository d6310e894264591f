// Package codec implements the FormatCodec collaborator: translating a
// frontmatter-stripped Markdown body to the remote's wiki storage format and
// back. Recognized constructs (panels, expand blocks, a table-of-contents
// macro, fenced code with language and title, task lists, inline status
// badges, smart links, emoticons) are translated to their storage
// equivalents. A `::: opaque ... :::` block is kept byte for byte; other
// text, including a `::: name ... :::` block with any other name, is left
// as it is except where one of those rewrites matches inside it.
package codec

import (
	"regexp"

	"github.com/yuin/goldmark"
	gmext "github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/hashtag"
	"go.abhg.dev/goldmark/mermaid"
	"go.abhg.dev/goldmark/wikilink"
)

// LinkResolver resolves a smart-link target to a storage-side page
// identifier. A nil resolver leaves targets unresolved (stored as plain
// text targets).
type LinkResolver interface {
	Resolve(target string) (id string, ok bool)
}

// PathLookup resolves a storage-side page identifier back to a local path,
// the inverse of LinkResolver, used by storage_to_markdown.
type PathLookup interface {
	LookupPath(id string) (path string, ok bool)
}

// Codec converts between Markdown body text and wiki storage text.
type Codec struct {
	links LinkResolver
	paths PathLookup
	md    goldmark.Markdown
}

// New creates a Codec. Either collaborator may be nil; unresolved smart
// links are then stored/rendered using their literal target text.
func New(links LinkResolver, paths PathLookup) *Codec {
	return &Codec{
		links: links,
		paths: paths,
		md: goldmark.New(
			goldmark.WithExtensions(
				gmext.TaskList,
				&wikilink.Extender{},
				&hashtag.Extender{},
				&mermaid.Extender{},
			),
		),
	}
}

// MarkdownToStorage converts an already-frontmatter-stripped Markdown body
// to storage text.
func (c *Codec) MarkdownToStorage(md string) (string, error) {
	extracted, body := extractOpaqueBlocks(md)

	body = c.calloutsToPanel(body)
	body = detailsToExpand(body)
	body = c.codeFencesToMacro(body)
	body = tocMarkerToMacro(body)
	body = c.wikilinksToSmartLinks(body)
	body = statusBadgesMarkdownToStorage(body)
	body = emoticonsToEmoji(body)

	// Parsing validates the remaining body is well-formed Markdown and
	// exercises the registered extensions (task lists, hashtags, mermaid
	// fences, wiki-links); the codec does not need the resulting tree,
	// since every construct it translates is handled textually above.
	_ = c.md.Parser().Parse(text.NewReader([]byte(body)))

	return restoreOpaqueBlocks(body, extracted), nil
}

// StorageToMarkdown is the inverse of MarkdownToStorage.
func (c *Codec) StorageToMarkdown(storage string) (string, error) {
	extracted, body := extractOpaqueBlocks(storage)

	body = c.panelToCallouts(body)
	body = expandToDetails(body)
	body = c.macroToCodeFences(body)
	body = tocMacroToMarker(body)
	body = c.smartLinksToWikilinks(body)
	body = statusBadgesStorageToMarkdown(body)
	body = emojiToEmoticons(body)

	return restoreOpaqueBlocks(body, extracted), nil
}

var (
	statusBadgeStorageRe  = regexp.MustCompile(`\{status:color=(\w+)\}(.*?)\{/status\}`)
	statusBadgeMarkdownRe = regexp.MustCompile(`!!(\w+)!!(.*?)!!`)
)

func statusBadgesMarkdownToStorage(s string) string {
	return statusBadgeMarkdownRe.ReplaceAllString(s, `{status:color=$1}$2{/status}`)
}

func statusBadgesStorageToMarkdown(s string) string {
	return statusBadgeStorageRe.ReplaceAllString(s, `!!$1!!$2!!`)
}

var tocMarkerRe = regexp.MustCompile(`(?m)^\[\[TOC\]\]$`)

func tocMarkerToMacro(s string) string {
	return tocMarkerRe.ReplaceAllString(s, "::: toc :::")
}

var tocMacroRe = regexp.MustCompile(`(?m)^::: toc :::$`)

func tocMacroToMarker(s string) string {
	return tocMacroRe.ReplaceAllString(s, "[[TOC]]")
}
