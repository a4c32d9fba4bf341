package markdown_test

import (
	"testing"

	"github.com/mbalicki/webclip"
	"github.com/mbalicki/webclip/markdown"
	"github.com/stretchr/testify/assert"
)

func text(s string) *webclip.Node { return webclip.TextNode(s) }

func paragraph(children ...*webclip.Node) *webclip.Node {
	return &webclip.Node{Type: webclip.NodeParagraph, Children: children}
}

func root(children ...*webclip.Node) *webclip.Node {
	return &webclip.Node{Type: webclip.NodeRoot, Children: children}
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	t.Run("headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		doc := root(
			&webclip.Node{Type: webclip.NodeHeading, Depth: 1, Children: []*webclip.Node{text("Title")}},
			paragraph(text("First paragraph.")),
			&webclip.Node{Type: webclip.NodeHeading, Depth: 3, Children: []*webclip.Node{text("Sub")}},
			paragraph(text("Second.")),
		)

		got := markdown.Serialize(doc, nil)
		assert.Equal(t, "# Title\n\nFirst paragraph.\n\n### Sub\n\nSecond.", got)
	})

	t.Run("inline formatting", func(t *testing.T) {
		t.Parallel()

		doc := root(paragraph(
			&webclip.Node{Type: webclip.NodeStrong, Children: []*webclip.Node{text("bold")}},
			text(" "),
			&webclip.Node{Type: webclip.NodeEmphasis, Children: []*webclip.Node{text("em")}},
			text(" "),
			&webclip.Node{Type: webclip.NodeDelete, Children: []*webclip.Node{text("gone")}},
			text(" "),
			&webclip.Node{Type: webclip.NodeInlineCode, Value: "x := 1"},
		))

		assert.Equal(t, "**bold** *em* ~~gone~~ `x := 1`", markdown.Serialize(doc, nil))
	})

	t.Run("links with and without titles", func(t *testing.T) {
		t.Parallel()

		doc := root(paragraph(
			&webclip.Node{Type: webclip.NodeLink, URL: "https://a.dev", Children: []*webclip.Node{text("a")}},
			text(" "),
			&webclip.Node{Type: webclip.NodeLink, URL: "https://b.dev", Title: "B site", Children: []*webclip.Node{text("b")}},
		))

		assert.Equal(t, `[a](https://a.dev) [b](https://b.dev "B site")`, markdown.Serialize(doc, nil))
	})

	t.Run("blockquote prefixes every line", func(t *testing.T) {
		t.Parallel()

		doc := root(&webclip.Node{Type: webclip.NodeBlockquote, Children: []*webclip.Node{
			paragraph(text("first")),
			paragraph(text("second")),
		}})

		assert.Equal(t, "> first\n>\n> second", markdown.Serialize(doc, nil))
	})

	t.Run("code block with language fence", func(t *testing.T) {
		t.Parallel()

		doc := root(&webclip.Node{Type: webclip.NodeCodeBlock, Lang: "go", Value: "package main"})
		assert.Equal(t, "```go\npackage main\n```", markdown.Serialize(doc, nil))
	})

	t.Run("math blocks and inline math", func(t *testing.T) {
		t.Parallel()

		doc := root(
			paragraph(text("inline "), &webclip.Node{Type: webclip.NodeMathInline, TeX: "x^2"}),
			&webclip.Node{Type: webclip.NodeMathBlock, TeX: `\sum_{i=1}^n i`},
		)

		assert.Equal(t, "inline $x^2$\n\n$$\n\\sum_{i=1}^n i\n$$", markdown.Serialize(doc, nil))
	})

	t.Run("footnote reference", func(t *testing.T) {
		t.Parallel()

		doc := root(paragraph(text("claim"), &webclip.Node{Type: webclip.NodeFootnoteRef, Value: "[1]"}))
		assert.Equal(t, "claim[^1]", markdown.Serialize(doc, nil))
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()

		doc := root(paragraph(text("a")), &webclip.Node{Type: webclip.NodeThematicBreak}, paragraph(text("b")))
		assert.Equal(t, "a\n\n---\n\nb", markdown.Serialize(doc, nil))
	})

	t.Run("nil root renders empty", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "", markdown.Serialize(nil, nil))
	})
}

func TestSerialize_Lists(t *testing.T) {
	t.Parallel()

	item := func(children ...*webclip.Node) *webclip.Node {
		return &webclip.Node{Type: webclip.NodeListItem, Children: children}
	}

	t.Run("unordered list", func(t *testing.T) {
		t.Parallel()

		doc := root(&webclip.Node{Type: webclip.NodeList, Children: []*webclip.Node{
			item(paragraph(text("one"))),
			item(paragraph(text("two"))),
		}})

		assert.Equal(t, "- one\n- two", markdown.Serialize(doc, nil))
	})

	t.Run("ordered list honors start", func(t *testing.T) {
		t.Parallel()

		doc := root(&webclip.Node{Type: webclip.NodeList, Ordered: true, Start: 4, Children: []*webclip.Node{
			item(paragraph(text("four"))),
			item(paragraph(text("five"))),
		}})

		assert.Equal(t, "4. four\n5. five", markdown.Serialize(doc, nil))
	})

	t.Run("task list checkboxes", func(t *testing.T) {
		t.Parallel()

		done, todo := true, false
		doc := root(&webclip.Node{Type: webclip.NodeList, Children: []*webclip.Node{
			&webclip.Node{Type: webclip.NodeListItem, Checked: &done, Children: []*webclip.Node{paragraph(text("shipped"))}},
			&webclip.Node{Type: webclip.NodeListItem, Checked: &todo, Children: []*webclip.Node{paragraph(text("pending"))}},
		}})

		assert.Equal(t, "- [x] shipped\n- [ ] pending", markdown.Serialize(doc, nil))
	})

	t.Run("nested list indents under its item", func(t *testing.T) {
		t.Parallel()

		doc := root(&webclip.Node{Type: webclip.NodeList, Children: []*webclip.Node{
			item(
				paragraph(text("outer")),
				&webclip.Node{Type: webclip.NodeList, Children: []*webclip.Node{
					item(paragraph(text("inner"))),
				}},
			),
		}})

		assert.Equal(t, "- outer\n\n  - inner", markdown.Serialize(doc, nil))
	})
}

func TestSerialize_Images(t *testing.T) {
	t.Parallel()

	t.Run("resolves asset id through the manifest", func(t *testing.T) {
		t.Parallel()

		assets := &webclip.AssetManifest{Images: []*webclip.ImageAsset{
			{ID: "img-0", OriginalURL: "https://example.com/a.png"},
		}}
		doc := root(&webclip.Node{Type: webclip.NodeImageBlock, AssetID: "img-0", Alt: "fig"})

		assert.Equal(t, "![fig](https://example.com/a.png)", markdown.Serialize(doc, assets))
	})

	t.Run("prefers the proxy URL", func(t *testing.T) {
		t.Parallel()

		assets := &webclip.AssetManifest{Images: []*webclip.ImageAsset{
			{ID: "img-0", OriginalURL: "https://example.com/a.png", ProxyURL: "https://proxy.local/a.png"},
		}}
		doc := root(&webclip.Node{Type: webclip.NodeImageBlock, AssetID: "img-0", Alt: "fig"})

		assert.Equal(t, "![fig](https://proxy.local/a.png)", markdown.Serialize(doc, assets))
	})

	t.Run("caption renders as an italic line", func(t *testing.T) {
		t.Parallel()

		doc := root(&webclip.Node{
			Type: webclip.NodeImageBlock, OriginalURL: "https://example.com/a.png",
			Alt: "fig", Caption: "The figure",
		})

		assert.Equal(t, "![fig](https://example.com/a.png)\n*The figure*", markdown.Serialize(doc, nil))
	})
}

func TestSerialize_Tables(t *testing.T) {
	t.Parallel()

	cell := func(header bool, s string) *webclip.Node {
		return &webclip.Node{Type: webclip.NodeTableCell, Header: header, Children: []*webclip.Node{text(s)}}
	}
	tableRow := func(cells ...*webclip.Node) *webclip.Node {
		return &webclip.Node{Type: webclip.NodeTableRow, Children: cells}
	}

	t.Run("simple table renders pipes", func(t *testing.T) {
		t.Parallel()

		table := &webclip.Node{Type: webclip.NodeTable, Children: []*webclip.Node{
			tableRow(cell(true, "Name"), cell(true, "Age")),
			tableRow(cell(false, "Ann"), cell(false, "30")),
		}}

		want := "| Name | Age |\n| --- | --- |\n| Ann | 30 |"
		assert.Equal(t, want, markdown.Serialize(root(table), nil))
	})

	t.Run("alignment markers in the separator", func(t *testing.T) {
		t.Parallel()

		table := &webclip.Node{
			Type:  webclip.NodeTable,
			Align: []webclip.Alignment{webclip.AlignLeft, webclip.AlignCenter, webclip.AlignRight},
			Children: []*webclip.Node{
				tableRow(cell(true, "a"), cell(true, "b"), cell(true, "c")),
				tableRow(cell(false, "1"), cell(false, "2"), cell(false, "3")),
			},
		}

		want := "| a | b | c |\n| :--- | :---: | ---: |\n| 1 | 2 | 3 |"
		assert.Equal(t, want, markdown.Serialize(root(table), nil))
	})

	t.Run("pipes inside cells are escaped", func(t *testing.T) {
		t.Parallel()

		table := &webclip.Node{Type: webclip.NodeTable, Children: []*webclip.Node{
			tableRow(cell(true, "expr")),
			tableRow(cell(false, "a|b")),
		}}

		want := "| expr |\n| --- |\n| a\\|b |"
		assert.Equal(t, want, markdown.Serialize(root(table), nil))
	})

	t.Run("merged cells force HTML serialization", func(t *testing.T) {
		t.Parallel()

		table := &webclip.Node{Type: webclip.NodeTable, HasRowspan: true, Children: []*webclip.Node{
			tableRow(
				&webclip.Node{Type: webclip.NodeTableCell, Header: true, Rowspan: 2, Children: []*webclip.Node{text("a")}},
				cell(true, "b"),
			),
			tableRow(cell(false, "c")),
		}}

		want := "<table>\n<tr><th rowspan=\"2\">a</th><th>b</th></tr>\n<tr><td>c</td></tr>\n</table>"
		assert.Equal(t, want, markdown.Serialize(root(table), nil))
	})

	t.Run("separator column count matches the header", func(t *testing.T) {
		t.Parallel()

		// A ragged body row must not change the separator width.
		table := &webclip.Node{Type: webclip.NodeTable, Children: []*webclip.Node{
			tableRow(cell(true, "a"), cell(true, "b"), cell(true, "c")),
			tableRow(cell(false, "1")),
		}}

		want := "| a | b | c |\n| --- | --- | --- |\n| 1 |"
		assert.Equal(t, want, markdown.Serialize(root(table), nil))
	})
}
