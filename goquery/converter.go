// Package goquery implements webclip's DOM-side components — content
// location, DOM to AST conversion, formula recognition, and structural
// metric counting — on top of PuerkitoBio/goquery.
package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mbalicki/webclip"
	"golang.org/x/net/html"
)

// Ensure Converter implements webclip.Converter at compile time.
var _ webclip.Converter = (*Converter)(nil)

// Converter transforms article HTML into the canonical AST. A Converter
// is stateless and safe for concurrent use; all per-run state lives in a
// conversion context created per Convert call.
type Converter struct{}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// convContext is the per-run conversion state: the asset registry (which
// owns id generation and image dedup) and the base URL it resolves
// against. Destroyed after the pass; the manifest is the only surviving
// output.
type convContext struct {
	registry *webclip.AssetRegistry
}

// droppedTags are never converted: scripts, styles, chrome, and form
// controls carry no article content.
var droppedTags = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true,
	"aside": true, "header": true, "form": true, "button": true,
	"input": true, "noscript": true, "svg": true, "template": true,
}

// Convert parses contentHTML and walks it depth-first into a canonical
// tree, registering assets as it goes. Malformed content never fails:
// unrecognizable nodes are dropped, so the worst case is content loss.
// Only unparseable input returns an error.
func (c *Converter) Convert(contentHTML string, baseURL string) (*webclip.ConvertResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}

	ctx := &convContext{registry: webclip.NewAssetRegistry(baseURL)}

	// goquery wraps fragments in html/body during parsing.
	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}

	root := &webclip.Node{
		Type:     webclip.NodeRoot,
		Children: normalizeBlocks(c.convertChildren(body, ctx, false)),
	}

	return &webclip.ConvertResult{Root: root, Assets: ctx.registry.Manifest()}, nil
}

// convertChildren converts every child node (elements and text) of s.
func (c *Converter) convertChildren(s *goquery.Selection, ctx *convContext, inline bool) []*webclip.Node {
	var nodes []*webclip.Node
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		nodes = append(nodes, c.convertNode(child, ctx, inline)...)
	})
	return nodes
}

// convertNode converts one DOM node into zero or more AST nodes. The
// inline flag carries the expected context down from the parent: it
// decides whether images become imageInline or imageBlock nodes.
func (c *Converter) convertNode(s *goquery.Selection, ctx *convContext, inline bool) []*webclip.Node {
	if s.Length() == 0 {
		return nil
	}
	node := s.Get(0)

	switch node.Type {
	case html.TextNode:
		return c.convertText(node.Data, ctx)
	case html.ElementNode:
		return c.convertElement(s, ctx, inline)
	}
	return nil
}

// convertElement dispatches an element by signature, then by tag name.
// Every arm has a "return nothing" fallback; the converter never panics
// upward by itself.
func (c *Converter) convertElement(s *goquery.Selection, ctx *convContext, inline bool) []*webclip.Node {
	// Math containers are opaque: recognized whole or suppressed
	// entirely. Recursing into failed math markup would emit garbled
	// rendering-engine output.
	if IsMathElement(s) {
		return c.convertMath(s, ctx)
	}

	if info, ok := detectEmbed(s); ok {
		return c.convertEmbed(s, info, ctx)
	}

	tag := nodeName(s)
	if droppedTags[tag] {
		return nil
	}

	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return c.convertHeading(s, ctx, int(tag[1]-'0'))
	case "p":
		return c.convertParagraph(s, ctx)
	case "blockquote":
		return []*webclip.Node{{
			Type:     webclip.NodeBlockquote,
			Children: normalizeBlocks(c.convertChildren(s, ctx, false)),
		}}
	case "ul", "ol":
		return c.convertList(s, ctx, tag == "ol")
	case "li":
		return c.convertListItem(s, ctx)
	case "pre":
		return c.convertCodeBlock(s)
	case "code":
		value := s.Text()
		if value == "" {
			return nil
		}
		return []*webclip.Node{{Type: webclip.NodeInlineCode, Value: value}}
	case "table":
		return c.convertTable(s, ctx)
	case "hr":
		return []*webclip.Node{{Type: webclip.NodeThematicBreak}}
	case "figure":
		return c.convertFigure(s, ctx)
	case "img":
		return c.convertImage(s, ctx, inline)
	case "strong", "b":
		return c.wrapInline(s, ctx, webclip.NodeStrong)
	case "em", "i":
		return c.wrapInline(s, ctx, webclip.NodeEmphasis)
	case "del", "s", "strike":
		return c.wrapInline(s, ctx, webclip.NodeDelete)
	case "a":
		return c.convertLink(s, ctx)
	case "br":
		return []*webclip.Node{{Type: webclip.NodeBreak}}
	case "sup":
		return c.convertSup(s, ctx)
	default:
		// Container catch-all (div, section, article, span, unknown
		// tags): flatten to whatever the children produce.
		return c.convertChildren(s, ctx, inline)
	}
}

func (c *Converter) convertMath(s *goquery.Selection, ctx *convContext) []*webclip.Node {
	formula, ok := RecognizeFormula(s)
	if !ok {
		return nil
	}
	ctx.registry.RegisterFormula(formula.TeX, formula.Display, formula.Engine)
	nodeType := webclip.NodeMathInline
	if formula.Display {
		nodeType = webclip.NodeMathBlock
	}
	return []*webclip.Node{{Type: nodeType, TeX: formula.TeX, Engine: formula.Engine}}
}

func (c *Converter) convertEmbed(s *goquery.Selection, info embedInfo, ctx *convContext) []*webclip.Node {
	resolved := ctx.registry.ResolveURL(info.URL)
	ctx.registry.RegisterEmbed(info.Type, info.URL, info.Provider)

	// The raw outer markup rides along as a fallback payload for
	// consumers that can render the original embed.
	raw, err := goquery.OuterHtml(s)
	if err != nil {
		raw = ""
	}
	return []*webclip.Node{{
		Type:      webclip.NodeEmbedBlock,
		EmbedType: info.Type,
		URL:       resolved,
		HTML:      raw,
		Provider:  info.Provider,
	}}
}

func (c *Converter) convertHeading(s *goquery.Selection, ctx *convContext, depth int) []*webclip.Node {
	children := inlineOnly(c.convertChildren(s, ctx, true))
	if len(children) == 0 {
		return nil
	}
	return []*webclip.Node{{Type: webclip.NodeHeading, Depth: depth, Children: children}}
}

func (c *Converter) convertParagraph(s *goquery.Selection, ctx *convContext) []*webclip.Node {
	children := c.convertChildren(s, ctx, true)

	// Platforms wrap images and formulas in paragraphs; keep any block
	// results and paragraph the rest.
	var blocks, inlines []*webclip.Node
	for _, child := range children {
		if child.Type.Block() {
			blocks = append(blocks, child)
		} else {
			inlines = append(inlines, child)
		}
	}

	var out []*webclip.Node
	if p := paragraphOf(inlines); p != nil {
		out = append(out, p)
	}
	return append(out, blocks...)
}

func (c *Converter) convertList(s *goquery.Selection, ctx *convContext, ordered bool) []*webclip.Node {
	var items []*webclip.Node
	s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		items = append(items, c.convertListItem(li, ctx)...)
	})
	if len(items) == 0 {
		return nil
	}

	node := &webclip.Node{Type: webclip.NodeList, Ordered: ordered, Children: items}
	if ordered {
		node.Start = 1
		if start, err := strconv.Atoi(s.AttrOr("start", "")); err == nil && start > 0 {
			node.Start = start
		}
	}
	return []*webclip.Node{node}
}

func (c *Converter) convertListItem(s *goquery.Selection, ctx *convContext) []*webclip.Node {
	item := &webclip.Node{Type: webclip.NodeListItem}

	// Task list checkbox: record the tri-state and excise the control so
	// it doesn't convert again (inputs are dropped anyway, but the state
	// must be captured first).
	checkbox := s.Find(`input[type="checkbox"]`).First()
	if checkbox.Length() > 0 {
		checked := checkbox.AttrOr("checked", "missing") != "missing"
		item.Checked = &checked
		checkbox.Remove()
	}

	item.Children = normalizeBlocks(c.convertChildren(s, ctx, false))
	return []*webclip.Node{item}
}

func (c *Converter) convertCodeBlock(s *goquery.Selection) []*webclip.Node {
	code := s.Find("code").First()
	value := s.Text()
	lang := codeLanguage(s)
	if code.Length() > 0 {
		value = code.Text()
		if lang == "" {
			lang = codeLanguage(code)
		}
	}
	value = strings.TrimRight(value, "\n")
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return []*webclip.Node{{Type: webclip.NodeCodeBlock, Lang: lang, Value: value}}
}

// codeLanguage reads the language from a language-*/lang-* class or a
// data attribute.
func codeLanguage(s *goquery.Selection) string {
	for _, class := range strings.Fields(s.AttrOr("class", "")) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			return lang
		}
		if lang, ok := strings.CutPrefix(class, "lang-"); ok {
			return lang
		}
	}
	if lang := s.AttrOr("data-language", ""); lang != "" {
		return lang
	}
	return s.AttrOr("data-lang", "")
}

func (c *Converter) convertFigure(s *goquery.Selection, ctx *convContext) []*webclip.Node {
	caption := strings.TrimSpace(s.Find("figcaption").First().Text())

	var blocks []*webclip.Node
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		if nodeName(child) == "figcaption" {
			return
		}
		for _, n := range c.convertNode(child, ctx, false) {
			if n.Type.Block() {
				blocks = append(blocks, n)
			}
		}
	})

	// A figure that reduces to a single image collapses into it, with
	// the caption attached.
	if len(blocks) == 1 && blocks[0].Type == webclip.NodeImageBlock {
		blocks[0].Caption = caption
		return blocks
	}
	return blocks
}

func (c *Converter) convertImage(s *goquery.Selection, ctx *convContext, inline bool) []*webclip.Node {
	src := imageSource(s)
	if src == "" {
		return nil
	}

	meta := webclip.ImageMeta{
		Alt:   s.AttrOr("alt", ""),
		Title: s.AttrOr("title", ""),
	}
	if w, err := strconv.Atoi(s.AttrOr("width", "")); err == nil {
		meta.Width = w
	}
	if h, err := strconv.Atoi(s.AttrOr("height", "")); err == nil {
		meta.Height = h
	}

	id := ctx.registry.RegisterImage(src, meta)
	nodeType := webclip.NodeImageBlock
	if inline {
		nodeType = webclip.NodeImageInline
	}
	return []*webclip.Node{{
		Type:        nodeType,
		AssetID:     id,
		Alt:         meta.Alt,
		Title:       meta.Title,
		OriginalURL: ctx.registry.ResolveURL(src),
	}}
}

// lazyAttrs are lazy-load data-attribute conventions, tried in order when
// src and srcset both fail.
var lazyAttrs = []string{"data-src", "data-original", "data-actualsrc", "data-original-src", "data-lazy-src"}

// imageSource picks the best source for an img element: src unless it is
// an inline SVG placeholder, then the widest srcset candidate, then the
// lazy-load attributes.
func imageSource(s *goquery.Selection) string {
	src := s.AttrOr("src", "")
	if src != "" && !strings.HasPrefix(src, "data:image/svg") {
		return src
	}
	if candidate := widestSrcset(s.AttrOr("srcset", "")); candidate != "" {
		return candidate
	}
	for _, attr := range lazyAttrs {
		if v := s.AttrOr(attr, ""); v != "" {
			return v
		}
	}
	return src
}

// widestSrcset returns the URL of the highest-width candidate in a
// srcset attribute value.
func widestSrcset(srcset string) string {
	best := ""
	bestWidth := -1
	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(candidate))
		if len(fields) == 0 {
			continue
		}
		width := 0
		if len(fields) > 1 {
			spec := fields[1]
			if strings.HasSuffix(spec, "w") || strings.HasSuffix(spec, "x") {
				if n, err := strconv.Atoi(spec[:len(spec)-1]); err == nil {
					width = n
				}
			}
		}
		if width > bestWidth {
			bestWidth = width
			best = fields[0]
		}
	}
	return best
}

func (c *Converter) wrapInline(s *goquery.Selection, ctx *convContext, nodeType webclip.NodeType) []*webclip.Node {
	children := inlineOnly(c.convertChildren(s, ctx, true))
	if len(children) == 0 {
		return nil
	}
	return []*webclip.Node{{Type: nodeType, Children: children}}
}

func (c *Converter) convertLink(s *goquery.Selection, ctx *convContext) []*webclip.Node {
	children := inlineOnly(c.convertChildren(s, ctx, true))
	href := ctx.registry.ResolveURL(s.AttrOr("href", ""))
	if len(children) == 0 {
		if href == "" {
			return nil
		}
		children = []*webclip.Node{webclip.TextNode(href)}
	}
	if href == "" {
		return children
	}
	return []*webclip.Node{{
		Type:     webclip.NodeLink,
		URL:      href,
		Title:    s.AttrOr("title", ""),
		Children: children,
	}}
}

// convertSup maps footnote-style superscripts to footnoteRef nodes and
// flattens everything else.
func (c *Converter) convertSup(s *goquery.Selection, ctx *convContext) []*webclip.Node {
	if s.Find("a[href^='#']").Length() > 0 {
		label := strings.TrimSpace(s.Text())
		if label == "" {
			return nil
		}
		return []*webclip.Node{{Type: webclip.NodeFootnoteRef, Value: label}}
	}
	return c.convertChildren(s, ctx, true)
}

// convertTable builds a table node from thead rows (cells forced to
// header) followed by tbody-or-self child rows. Rowspan/colspan are
// recorded per cell only when >1, and the table remembers whether any
// cell had them — merged cells force HTML serialization later.
func (c *Converter) convertTable(s *goquery.Selection, ctx *convContext) []*webclip.Node {
	table := &webclip.Node{Type: webclip.NodeTable}

	s.ChildrenFiltered("thead").Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if row := c.convertTableRow(tr, ctx, table, true); row != nil {
			table.Children = append(table.Children, row)
		}
	})

	bodyRows := s.ChildrenFiltered("tbody").ChildrenFiltered("tr")
	if bodyRows.Length() == 0 {
		bodyRows = s.ChildrenFiltered("tr")
	}
	bodyRows.Each(func(_ int, tr *goquery.Selection) {
		if row := c.convertTableRow(tr, ctx, table, false); row != nil {
			table.Children = append(table.Children, row)
		}
	})

	if len(table.Children) == 0 {
		return nil
	}
	table.Align = tableAlignments(s)
	return []*webclip.Node{table}
}

// tableAlignments derives column alignments from the first row's cells.
func tableAlignments(s *goquery.Selection) []webclip.Alignment {
	firstRow := s.Find("tr").First()
	if firstRow.Length() == 0 {
		return nil
	}
	var aligns []webclip.Alignment
	firstRow.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
		aligns = append(aligns, cellAlignment(cell))
	})
	return aligns
}

func (c *Converter) convertTableRow(tr *goquery.Selection, ctx *convContext, table *webclip.Node, forceHeader bool) *webclip.Node {
	row := &webclip.Node{Type: webclip.NodeTableRow}
	tr.ChildrenFiltered("td, th").Each(func(_ int, cellSel *goquery.Selection) {
		cell := &webclip.Node{
			Type:     webclip.NodeTableCell,
			Header:   forceHeader || nodeName(cellSel) == "th",
			Children: inlineOnly(c.convertChildren(cellSel, ctx, true)),
		}
		if span, err := strconv.Atoi(cellSel.AttrOr("rowspan", "")); err == nil && span > 1 {
			cell.Rowspan = span
			table.HasRowspan = true
		}
		if span, err := strconv.Atoi(cellSel.AttrOr("colspan", "")); err == nil && span > 1 {
			cell.Colspan = span
			table.HasColspan = true
		}
		row.Children = append(row.Children, cell)
	})
	if len(row.Children) == 0 {
		return nil
	}
	return row
}

func cellAlignment(s *goquery.Selection) webclip.Alignment {
	align := strings.ToLower(s.AttrOr("align", ""))
	if align == "" {
		style := strings.ToLower(s.AttrOr("style", ""))
		switch {
		case strings.Contains(style, "text-align: center"), strings.Contains(style, "text-align:center"):
			align = "center"
		case strings.Contains(style, "text-align: right"), strings.Contains(style, "text-align:right"):
			align = "right"
		case strings.Contains(style, "text-align: left"), strings.Contains(style, "text-align:left"):
			align = "left"
		}
	}
	switch align {
	case "left":
		return webclip.AlignLeft
	case "center":
		return webclip.AlignCenter
	case "right":
		return webclip.AlignRight
	}
	return webclip.AlignNone
}

// nodeName returns the lowercase tag name of the selection's first node.
func nodeName(s *goquery.Selection) string {
	return goquery.NodeName(s)
}

// inlineOnly filters out any block nodes that leaked into an inline
// context, preserving order.
func inlineOnly(nodes []*webclip.Node) []*webclip.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if !n.Type.Block() {
			out = append(out, n)
		}
	}
	return out
}

// paragraphOf wraps inline nodes into a paragraph, or returns nil when
// the run is empty or whitespace-only.
func paragraphOf(inlines []*webclip.Node) *webclip.Node {
	if emptyInlineRun(inlines) {
		return nil
	}
	return &webclip.Node{Type: webclip.NodeParagraph, Children: inlines}
}

// emptyInlineRun reports whether the run contains nothing but
// whitespace-only text (including non-breaking spaces).
func emptyInlineRun(inlines []*webclip.Node) bool {
	for _, n := range inlines {
		switch n.Type {
		case webclip.NodeText:
			if strings.TrimSpace(strings.ReplaceAll(n.Value, " ", " ")) != "" {
				return false
			}
		case webclip.NodeBreak:
			// whitespace-equivalent
		default:
			return false
		}
	}
	return true
}

// normalizeBlocks is the post-pass over a block context's children: runs
// of stray inline nodes are wrapped into synthesized paragraphs, and
// paragraphs that are empty or whitespace-only are dropped.
func normalizeBlocks(nodes []*webclip.Node) []*webclip.Node {
	var out []*webclip.Node
	var run []*webclip.Node

	flush := func() {
		if p := paragraphOf(run); p != nil {
			out = append(out, p)
		}
		run = nil
	}

	for _, n := range nodes {
		if n.Type.Block() {
			flush()
			if n.Type == webclip.NodeParagraph && emptyInlineRun(n.Children) {
				continue
			}
			out = append(out, n)
		} else {
			run = append(run, n)
		}
	}
	flush()
	return out
}
