package goquery

import (
	"strings"

	"github.com/mbalicki/webclip"
)

// convertText scans a DOM text node for inline LaTeX delimiters:
// $$...$$ (display) and $...$ (inline), with backslash-escaped dollars
// excluded from matching. Each match registers a formula and becomes a
// mathInline node; surrounding text becomes text nodes. Text with no
// matches returns unchanged as a single text node.
func (c *Converter) convertText(text string, ctx *convContext) []*webclip.Node {
	spans := findMathSpans(text)
	if len(spans) == 0 {
		if text == "" {
			return nil
		}
		return []*webclip.Node{webclip.TextNode(text)}
	}

	var nodes []*webclip.Node
	pos := 0
	for _, span := range spans {
		if span.start > pos {
			nodes = append(nodes, webclip.TextNode(text[pos:span.start]))
		}
		ctx.registry.RegisterFormula(span.tex, span.display, "")
		nodes = append(nodes, &webclip.Node{Type: webclip.NodeMathInline, TeX: span.tex})
		pos = span.end
	}
	if pos < len(text) {
		nodes = append(nodes, webclip.TextNode(text[pos:]))
	}
	return nodes
}

// mathSpan is one delimiter match within a text node. start/end are byte
// offsets covering the delimiters.
type mathSpan struct {
	start, end int
	tex        string
	display    bool
}

func findMathSpans(text string) []mathSpan {
	var spans []mathSpan
	i := 0
	for i < len(text) {
		switch text[i] {
		case '\\':
			// Escaped character: skip it and whatever it escapes.
			i += 2
		case '$':
			if i+1 < len(text) && text[i+1] == '$' {
				if span, ok := closeSpan(text, i, 2, true); ok {
					spans = append(spans, span)
					i = span.end
					continue
				}
				i += 2
				continue
			}
			if span, ok := closeSpan(text, i, 1, false); ok {
				spans = append(spans, span)
				i = span.end
				continue
			}
			i++
		default:
			i++
		}
	}
	return spans
}

// closeSpan looks for the closing delimiter of width delim starting after
// the opener at start. Empty bodies and bodies spanning lines (for the
// single-dollar form) do not match.
func closeSpan(text string, start, delim int, display bool) (mathSpan, bool) {
	body := start + delim
	i := body
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case '$':
			if delim == 2 {
				if i+1 >= len(text) || text[i+1] != '$' {
					i++
					continue
				}
			}
			tex := strings.TrimSpace(text[body:i])
			if tex == "" || (!display && strings.ContainsRune(tex, '\n')) {
				return mathSpan{}, false
			}
			return mathSpan{start: start, end: i + delim, tex: tex, display: display}, true
		default:
			i++
		}
	}
	return mathSpan{}, false
}
