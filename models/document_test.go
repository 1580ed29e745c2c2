package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentEmptyInputs(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte("null"), []byte(`{}`), []byte(`{"type":"doc"}`), []byte(`{"type":"doc","content":null}`)} {
		doc, err := ParseDocument(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Empty(t, doc.Content)
		assert.Empty(t, doc.ImageTitles())
	}
}

func TestParseDocumentMalformedContent(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte(`{"content":5}`),
		[]byte(`{"content":"not a list"}`),
		[]byte(`{"content":{"type":"image"}}`),
		[]byte(`[1,2,3]`),
	} {
		_, err := ParseDocument(raw)
		assert.ErrorIs(t, err, ErrMalformedDocument, "input %q", raw)
	}
}

func TestImageTitlesIgnoresOtherNodes(t *testing.T) {
	doc := Document{Content: []Node{
		{Type: NodeParagraph, Content: []Node{{Type: NodeText, Text: "hi"}}},
		{Type: NodeText, Text: "plain"},
		{Type: "table"},
	}}
	assert.Empty(t, doc.ImageTitles())
}

func TestImageTitlesPreservesDuplicates(t *testing.T) {
	doc := Document{Content: []Node{
		{Type: NodeImage, Attrs: &NodeAttrs{Title: "a"}},
		{Type: NodeImage, Attrs: &NodeAttrs{Title: "b"}},
		{Type: NodeImage, Attrs: &NodeAttrs{Title: "a"}},
		{Type: NodeImage, Attrs: &NodeAttrs{Title: ""}},
		{Type: NodeImage},
	}}
	assert.Equal(t, []string{"a", "b", "a"}, doc.ImageTitles())
}

func TestRewriteImageSrc(t *testing.T) {
	doc := Document{Content: []Node{
		{Type: NodeImage, Attrs: &NodeAttrs{Title: "x", Src: "stale"}},
		{Type: NodeImage, Attrs: &NodeAttrs{Title: "unknown", Src: "stale"}},
		{Type: NodeParagraph},
	}}

	doc.RewriteImageSrc(map[string]string{"x": "https://signed/x"})

	assert.Equal(t, "https://signed/x", doc.Content[0].Attrs.Src)
	assert.Equal(t, "stale", doc.Content[1].Attrs.Src, "unmatched nodes keep their src")
}
