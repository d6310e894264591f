// Package frontmatter provides reusable utilities for reading and writing
// the delimited header carried by every tracked Markdown file.
package frontmatter

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Delimiter is the frontmatter block delimiter.
const Delimiter = "---"

// Frontmatter is the parsed mapping from a tracked file's header. Recognized
// keys are "id" (required once a file is tracked) and "title" (optional);
// unrecognized keys are preserved but not interpreted.
type Frontmatter map[string]any

// Parse extracts a leading frontmatter block from content. Returns the
// frontmatter and the remaining body. If no delimited header is present at
// the very start of content, Parse returns a nil Frontmatter and the
// original content as body, with no error.
func Parse(content []byte) (Frontmatter, []byte, error) {
	if !bytes.HasPrefix(content, []byte(Delimiter+"\n")) {
		return nil, content, nil
	}

	rest := content[len(Delimiter)+1:]
	idx := bytes.Index(rest, []byte("\n"+Delimiter+"\n"))
	var payload, body []byte
	if idx != -1 {
		payload = rest[:idx]
		body = rest[idx+len(Delimiter)+2:]
	} else if bytes.HasSuffix(rest, []byte("\n"+Delimiter)) {
		payload = rest[:len(rest)-len(Delimiter)-1]
		body = nil
	} else {
		return nil, content, nil
	}

	fm := make(Frontmatter)
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := yaml.Unmarshal(payload, &fm); err != nil {
			return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	return fm, body, nil
}

// Serialize renders fm as a delimited header, its keys in stable sorted
// order so repeated serialization of the same map is byte-identical.
func Serialize(fm Frontmatter) ([]byte, error) {
	if len(fm) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(fm))
	for k := range fm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make(map[string]any, len(fm))
	for _, k := range keys {
		ordered[k] = fm[k]
	}

	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	// Encode key by key to keep deterministic order; yaml.v3 map encoding
	// does not sort, so we build a yaml.Node sequence explicitly.
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var keyNode, valNode yaml.Node
		if err := keyNode.Encode(k); err != nil {
			return nil, fmt.Errorf("encode frontmatter key %q: %w", k, err)
		}
		if err := valNode.Encode(fm[k]); err != nil {
			return nil, fmt.Errorf("encode frontmatter value %q: %w", k, err)
		}
		node.Content = append(node.Content, &keyNode, &valNode)
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.Write(out)
	buf.WriteString(Delimiter + "\n")

	return buf.Bytes(), nil
}

// ID returns the required "id" key, or "" if absent.
func (fm Frontmatter) ID() string {
	return fm.getString("id")
}

// Title returns the optional "title" key, or "" if absent.
func (fm Frontmatter) Title() string {
	return fm.getString("title")
}

// SetID sets the "id" key.
func (fm Frontmatter) SetID(id string) { fm["id"] = id }

// SetTitle sets the "title" key.
func (fm Frontmatter) SetTitle(title string) { fm["title"] = title }

func (fm Frontmatter) getString(key string) string {
	if fm == nil {
		return ""
	}
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Prepend renders fm as a header and prepends it to body. body starts on
// the line right after the closing delimiter, so Parse of the result
// returns body unchanged.
func Prepend(fm Frontmatter, body []byte) ([]byte, error) {
	header, err := Serialize(fm)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return body, nil
	}
	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(body)
	return buf.Bytes(), nil
}
