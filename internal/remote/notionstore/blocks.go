package notionstore

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

// blocksToStorageText flattens a page's top-level paragraph blocks back into
// storage text, the inverse of storageTextToBlocks.
func blocksToStorageText(blocks []notionapi.Block) string {
	var paragraphs []string
	for _, b := range blocks {
		p, ok := b.(*notionapi.ParagraphBlock)
		if !ok {
			continue
		}
		paragraphs = append(paragraphs, plainText(p.Paragraph.RichText))
	}
	return strings.Join(paragraphs, "\n\n")
}

// storageTextToBlocks splits storage text on blank lines into one paragraph
// block per chunk.
func storageTextToBlocks(text string) []notionapi.Block {
	chunks := strings.Split(text, "\n\n")
	blocks := make([]notionapi.Block, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk == "" {
			continue
		}
		blocks = append(blocks, &notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{
				RichText: []notionapi.RichText{
					{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: chunk}},
				},
			},
		})
	}
	return blocks
}

func plainText(rt []notionapi.RichText) string {
	var sb strings.Builder
	for _, r := range rt {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}

func pageTitle(props notionapi.Properties) string {
	for _, key := range []string{"title", "Name", "Title"} {
		if v, ok := props[key]; ok {
			if tp, ok := v.(*notionapi.TitleProperty); ok {
				return plainText(tp.Title)
			}
			if tp, ok := v.(notionapi.TitleProperty); ok {
				return plainText(tp.Title)
			}
		}
	}
	return ""
}

func parentID(p notionapi.Parent) string {
	if p.Type == notionapi.ParentTypePageID {
		return string(p.PageID)
	}
	return ""
}

func parentSpaceKey(p notionapi.Parent) string {
	if p.Type == notionapi.ParentTypeDatabaseID {
		return string(p.DatabaseID)
	}
	return ""
}

// versionFromTimestamp derives a monotonically increasing version number
// from the server's last-edited timestamp, since Notion has no native page
// version counter.
func versionFromTimestamp(t time.Time) int {
	return int(t.Unix())
}

func blockID(b notionapi.Block) string {
	switch v := b.(type) {
	case *notionapi.ParagraphBlock:
		return string(v.ID)
	default:
		return ""
	}
}
