package models

import (
	"encoding/json"
	"errors"
)

// Node kinds the editor currently emits. Unknown kinds pass through untouched.
const (
	NodeImage     = "image"
	NodeParagraph = "paragraph"
	NodeText      = "text"
)

var ErrMalformedDocument = errors.New("document content has an invalid shape")

// NodeAttrs holds the attributes of an image node. Title is the stable logical
// name of the image; Src is whatever URL the client last rendered and gets
// rewritten to a signed URL on every read.
type NodeAttrs struct {
	Title string `json:"title,omitempty"`
	Src   string `json:"src,omitempty"`
	Alt   string `json:"alt,omitempty"`
}

type Node struct {
	Type    string     `json:"type"`
	Attrs   *NodeAttrs `json:"attrs,omitempty"`
	Content []Node     `json:"content,omitempty"`
	Text    string     `json:"text,omitempty"`
}

// Document is the rich-text tree stored in the JSON columns of questions,
// justifications and options.
type Document struct {
	Type    string `json:"type,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// ParseDocument decodes a raw JSON column into a Document. Absent, null or
// empty input yields an empty document; a present content field that is not a
// node list is ErrMalformedDocument. The same policy applies to every document
// column in the system.
func ParseDocument(raw []byte) (Document, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Document{}, nil
	}
	var probe struct {
		Type    string          `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Document{}, ErrMalformedDocument
	}
	if len(probe.Content) == 0 || string(probe.Content) == "null" {
		return Document{Type: probe.Type}, nil
	}
	var nodes []Node
	if err := json.Unmarshal(probe.Content, &nodes); err != nil {
		return Document{}, ErrMalformedDocument
	}
	return Document{Type: probe.Type, Content: nodes}, nil
}

// ImageTitles walks the top-level node list and collects the title of every
// image node that carries one. Duplicates are preserved; de-duplication is the
// caller's concern.
func (d Document) ImageTitles() []string {
	var titles []string
	for _, n := range d.Content {
		if n.Type == NodeImage && n.Attrs != nil && n.Attrs.Title != "" {
			titles = append(titles, n.Attrs.Title)
		}
	}
	return titles
}

// RewriteImageSrc replaces the src of every image node whose title appears in
// urls. Nodes without a match keep whatever src they had.
func (d *Document) RewriteImageSrc(urls map[string]string) {
	for i := range d.Content {
		n := &d.Content[i]
		if n.Type != NodeImage || n.Attrs == nil {
			continue
		}
		if url, ok := urls[n.Attrs.Title]; ok {
			n.Attrs.Src = url
		}
	}
}

func (d Document) JSON() ([]byte, error) {
	return json.Marshal(d)
}
