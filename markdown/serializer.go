// Package markdown renders the canonical AST to Markdown text. Rendering
// is deterministic and one-directional: there is no parser back into the
// AST.
package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mbalicki/webclip"
)

// Serialize renders the tree rooted at root into Markdown. Image asset
// ids are resolved through the manifest, preferring proxy URLs over
// originals so a rehosted copy can be substituted without re-walking the
// AST. Unknown node types render as the empty string.
func Serialize(root *webclip.Node, assets *webclip.AssetManifest) string {
	if root == nil {
		return ""
	}
	return strings.TrimRight(renderBlocks(root.Children, assets), "\n")
}

// renderBlocks joins block renderings with blank lines.
func renderBlocks(nodes []*webclip.Node, assets *webclip.AssetManifest) string {
	var parts []string
	for _, n := range nodes {
		if rendered := renderBlock(n, assets); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n\n")
}

func renderBlock(n *webclip.Node, assets *webclip.AssetManifest) string {
	switch n.Type {
	case webclip.NodeHeading:
		depth := n.Depth
		if depth < 1 {
			depth = 1
		} else if depth > 6 {
			depth = 6
		}
		return strings.Repeat("#", depth) + " " + renderInlines(n.Children, assets)
	case webclip.NodeParagraph:
		return renderInlines(n.Children, assets)
	case webclip.NodeBlockquote:
		return prefixLines(renderBlocks(n.Children, assets), "> ")
	case webclip.NodeList:
		return renderList(n, assets)
	case webclip.NodeCodeBlock:
		return "```" + n.Lang + "\n" + n.Value + "\n```"
	case webclip.NodeTable:
		if n.HasRowspan || n.HasColspan {
			// Pipe tables cannot express merged cells; fall back to
			// literal HTML for the whole table.
			return renderHTMLTable(n, assets)
		}
		return renderPipeTable(n, assets)
	case webclip.NodeThematicBreak:
		return "---"
	case webclip.NodeImageBlock:
		image := renderImage(n, assets)
		if n.Caption != "" {
			image += "\n*" + n.Caption + "*"
		}
		return image
	case webclip.NodeEmbedBlock:
		if n.HTML != "" {
			return n.HTML
		}
		if n.URL == "" {
			return ""
		}
		return "[" + n.URL + "](" + n.URL + ")"
	case webclip.NodeMathBlock:
		return "$$\n" + n.TeX + "\n$$"
	case webclip.NodeHTMLBlock:
		return n.Value
	}
	return ""
}

func renderInlines(nodes []*webclip.Node, assets *webclip.AssetManifest) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(renderInline(n, assets))
	}
	return b.String()
}

func renderInline(n *webclip.Node, assets *webclip.AssetManifest) string {
	switch n.Type {
	case webclip.NodeText:
		return n.Value
	case webclip.NodeStrong:
		return "**" + renderInlines(n.Children, assets) + "**"
	case webclip.NodeEmphasis:
		return "*" + renderInlines(n.Children, assets) + "*"
	case webclip.NodeDelete:
		return "~~" + renderInlines(n.Children, assets) + "~~"
	case webclip.NodeInlineCode:
		return "`" + n.Value + "`"
	case webclip.NodeLink:
		text := renderInlines(n.Children, assets)
		if n.Title != "" {
			return fmt.Sprintf("[%s](%s %q)", text, n.URL, n.Title)
		}
		return "[" + text + "](" + n.URL + ")"
	case webclip.NodeImageInline:
		return renderImage(n, assets)
	case webclip.NodeMathInline:
		return "$" + n.TeX + "$"
	case webclip.NodeBreak:
		return "  \n"
	case webclip.NodeHTMLInline:
		return n.Value
	case webclip.NodeFootnoteRef:
		return "[^" + strings.Trim(n.Value, "[]") + "]"
	}
	return ""
}

func renderImage(n *webclip.Node, assets *webclip.AssetManifest) string {
	url := assets.ImageURL(n.AssetID)
	if url == "" {
		url = n.OriginalURL
	}
	if n.Title != "" {
		return fmt.Sprintf("![%s](%s %q)", n.Alt, url, n.Title)
	}
	return "![" + n.Alt + "](" + url + ")"
}

func renderList(list *webclip.Node, assets *webclip.AssetManifest) string {
	var items []string
	number := list.Start
	if number < 1 {
		number = 1
	}
	for _, item := range list.Children {
		marker := "- "
		if list.Ordered {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		if item.Checked != nil {
			if *item.Checked {
				marker += "[x] "
			} else {
				marker += "[ ] "
			}
		}
		body := renderBlocks(item.Children, assets)
		items = append(items, marker+indentContinuation(body, len(marker)))
	}
	return strings.Join(items, "\n")
}

// indentContinuation indents every line after the first by width spaces
// so nested blocks stay inside the list item.
func indentContinuation(s string, width int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= 1 {
		return s
	}
	pad := strings.Repeat(" ", width)
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func renderPipeTable(table *webclip.Node, assets *webclip.AssetManifest) string {
	if len(table.Children) == 0 {
		return ""
	}

	var b strings.Builder
	header := table.Children[0]
	writeRow(&b, header, assets)

	// Separator column count always equals the header row's cell count.
	b.WriteString("|")
	for i := range header.Children {
		b.WriteString(" " + separatorFor(alignAt(table.Align, i)) + " |")
	}
	b.WriteString("\n")

	for _, row := range table.Children[1:] {
		writeRow(&b, row, assets)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRow(b *strings.Builder, row *webclip.Node, assets *webclip.AssetManifest) {
	b.WriteString("|")
	for _, cell := range row.Children {
		text := renderInlines(cell.Children, assets)
		text = strings.ReplaceAll(text, "\n", " ")
		text = strings.ReplaceAll(text, "|", `\|`)
		b.WriteString(" " + strings.TrimSpace(text) + " |")
	}
	b.WriteString("\n")
}

func alignAt(aligns []webclip.Alignment, i int) webclip.Alignment {
	if i < len(aligns) {
		return aligns[i]
	}
	return webclip.AlignNone
}

func separatorFor(align webclip.Alignment) string {
	switch align {
	case webclip.AlignLeft:
		return ":---"
	case webclip.AlignCenter:
		return ":---:"
	case webclip.AlignRight:
		return "---:"
	}
	return "---"
}

// renderHTMLTable emits the table as literal HTML markup, the escape
// hatch for merged cells that pipe syntax cannot represent.
func renderHTMLTable(table *webclip.Node, assets *webclip.AssetManifest) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	for _, row := range table.Children {
		b.WriteString("<tr>")
		for _, cell := range row.Children {
			tag := "td"
			if cell.Header {
				tag = "th"
			}
			b.WriteString("<" + tag)
			if cell.Rowspan > 1 {
				b.WriteString(` rowspan="` + strconv.Itoa(cell.Rowspan) + `"`)
			}
			if cell.Colspan > 1 {
				b.WriteString(` colspan="` + strconv.Itoa(cell.Colspan) + `"`)
			}
			b.WriteString(">")
			b.WriteString(escapeHTML(renderInlines(cell.Children, assets)))
			b.WriteString("</" + tag + ">")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>")
	return b.String()
}

func escapeHTML(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
