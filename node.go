package webclip

import "strings"

// NodeType identifies a canonical AST node variant. The vocabulary is
// closed: converters must map every recognized HTML construct onto one of
// these types and drop everything else.
type NodeType string

// Block node types.
const (
	NodeRoot          NodeType = "root"
	NodeHeading       NodeType = "heading"
	NodeParagraph     NodeType = "paragraph"
	NodeBlockquote    NodeType = "blockquote"
	NodeList          NodeType = "list"
	NodeListItem      NodeType = "listItem"
	NodeCodeBlock     NodeType = "codeBlock"
	NodeTable         NodeType = "table"
	NodeTableRow      NodeType = "tableRow"
	NodeTableCell     NodeType = "tableCell"
	NodeThematicBreak NodeType = "thematicBreak"
	NodeImageBlock    NodeType = "imageBlock"
	NodeEmbedBlock    NodeType = "embedBlock"
	NodeMathBlock     NodeType = "mathBlock"
	NodeHTMLBlock     NodeType = "htmlBlock"
)

// Inline node types.
const (
	NodeText        NodeType = "text"
	NodeStrong      NodeType = "strong"
	NodeEmphasis    NodeType = "emphasis"
	NodeDelete      NodeType = "delete"
	NodeInlineCode  NodeType = "inlineCode"
	NodeLink        NodeType = "link"
	NodeImageInline NodeType = "imageInline"
	NodeMathInline  NodeType = "mathInline"
	NodeBreak       NodeType = "break"
	NodeHTMLInline  NodeType = "htmlInline"
	NodeFootnoteRef NodeType = "footnoteRef"
)

// Block reports whether the type belongs to the block family. Everything
// not listed as a block type is inline.
func (t NodeType) Block() bool {
	switch t {
	case NodeRoot, NodeHeading, NodeParagraph, NodeBlockquote, NodeList,
		NodeListItem, NodeCodeBlock, NodeTable, NodeTableRow, NodeTableCell,
		NodeThematicBreak, NodeImageBlock, NodeEmbedBlock, NodeMathBlock,
		NodeHTMLBlock:
		return true
	}
	return false
}

// Alignment represents a table column alignment.
type Alignment string

// Alignment values. AlignNone means no explicit alignment.
const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Node is a canonical AST node. A single struct with optional fields is
// used for all variants so the tree serializes to JSON without a custom
// marshaller; which fields are meaningful depends on Type.
//
// Nodes are constructed bottom-up during conversion and must be treated
// as immutable once the converter returns them.
type Node struct {
	Type     NodeType `json:"type"`
	Children []*Node  `json:"children,omitempty"`

	// Value holds literal content for text, inlineCode, codeBlock,
	// htmlBlock and htmlInline nodes.
	Value string `json:"value,omitempty"`

	// Depth is the heading level (1-6).
	Depth int `json:"depth,omitempty"`

	// List fields. Checked is tri-state: nil for a plain list item,
	// otherwise the checkbox state.
	Ordered bool  `json:"ordered,omitempty"`
	Start   int   `json:"start,omitempty"`
	Checked *bool `json:"checked,omitempty"`

	// Lang is the code block language tag.
	Lang string `json:"lang,omitempty"`

	// Table fields. HasRowspan/HasColspan force HTML serialization since
	// pipe tables cannot express merged cells.
	Align      []Alignment `json:"align,omitempty"`
	HasRowspan bool        `json:"hasRowspan,omitempty"`
	HasColspan bool        `json:"hasColspan,omitempty"`

	// Table cell fields. Rowspan/Colspan are recorded only when > 1.
	Header  bool `json:"header,omitempty"`
	Rowspan int  `json:"rowspan,omitempty"`
	Colspan int  `json:"colspan,omitempty"`

	// Image fields. AssetID references an entry in the asset manifest.
	AssetID     string `json:"assetId,omitempty"`
	Alt         string `json:"alt,omitempty"`
	Caption     string `json:"caption,omitempty"`
	OriginalURL string `json:"originalUrl,omitempty"`

	// Link and embed fields.
	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
	EmbedType string `json:"embedType,omitempty"`
	HTML      string `json:"html,omitempty"`
	Provider  string `json:"provider,omitempty"`

	// Math fields.
	TeX    string `json:"tex,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// TextNode returns a new text node with the given value.
func TextNode(value string) *Node {
	return &Node{Type: NodeText, Value: value}
}

// Walk visits n and every descendant in depth-first order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// PlainText returns the concatenated text content of the subtree rooted
// at n. Block boundaries are rendered as single spaces so words from
// adjacent blocks don't run together.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.writePlainText(&b)
	return strings.TrimSpace(b.String())
}

func (n *Node) writePlainText(b *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Type {
	case NodeText, NodeInlineCode:
		b.WriteString(n.Value)
	case NodeMathInline, NodeMathBlock:
		b.WriteString(n.TeX)
	case NodeBreak:
		b.WriteByte(' ')
	}
	for _, child := range n.Children {
		child.writePlainText(b)
	}
	if n.Type.Block() && n.Type != NodeRoot {
		b.WriteByte(' ')
	}
}
