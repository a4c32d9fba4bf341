package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Formula is the recovered source of a rendered math element.
type Formula struct {
	TeX     string
	Display bool
	Engine  string
}

// Rendering engine identifiers reported in Formula.Engine.
const (
	EngineKaTeX   = "katex"
	EngineMathJax = "mathjax"
	EngineMathML  = "mathml"
	EngineTexvc   = "texvc"
	EngineZtext   = "ztext"
)

// mathClasses maps engine-specific CSS classes to engine ids.
var mathClasses = map[string]string{
	"katex":                           EngineKaTeX,
	"katex-display":                   EngineKaTeX,
	"katex-mathml":                    EngineKaTeX,
	"MathJax":                         EngineMathJax,
	"MathJax_Display":                 EngineMathJax,
	"MathJax_Preview":                 EngineMathJax,
	"MathJax_SVG":                     EngineMathJax,
	"MathJax_SVG_Display":             EngineMathJax,
	"mwe-math-element":                EngineTexvc,
	"mwe-math-fallback-image-inline":  EngineTexvc,
	"mwe-math-fallback-image-display": EngineTexvc,
	"ztext-math":                      EngineZtext,
}

// IsMathElement reports whether the element matches a known rendering
// engine signature. Matching elements are opaque to the converter: their
// children are never traversed independently.
func IsMathElement(s *goquery.Selection) bool {
	return mathEngine(s) != ""
}

// mathEngine identifies the rendering engine for an element, or "" when
// the element carries no math signature.
func mathEngine(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	switch nodeName(s) {
	case "math":
		return EngineMathML
	case "mjx-container":
		return EngineMathJax
	case "script":
		if strings.HasPrefix(s.AttrOr("type", ""), "math/tex") {
			return EngineMathJax
		}
		return ""
	}
	for _, class := range strings.Fields(s.AttrOr("class", "")) {
		if engine, ok := mathClasses[class]; ok {
			return engine
		}
	}
	return ""
}

// RecognizeFormula attempts to recover the LaTeX source of a rendered
// math element. Structured encodings are tried first (accessibility
// annotation, legacy script tags, data attributes, fallback image alt
// text); plain-text heuristics run last. Returns ok=false when nothing
// can be recovered — the caller must then treat the element as an opaque
// leaf rather than recursing into its rendering markup.
//
// RecognizeFormula is pure: it never mutates the document.
func RecognizeFormula(s *goquery.Selection) (*Formula, bool) {
	engine := mathEngine(s)
	display := isDisplayMath(s)

	// Accessibility annotation: the most reliable source when present.
	// KaTeX and MathJax both emit the original TeX in a MathML
	// annotation element.
	if tex := firstText(s, `annotation[encoding="application/x-tex"]`); tex != "" {
		return &Formula{TeX: tex, Display: display, Engine: engine}, true
	}

	// Legacy MathJax v2: the TeX is the literal content of a typed
	// script element; display-ness is a mode marker in the type string.
	script := s
	if nodeName(s) != "script" {
		script = s.Find(`script[type^="math/tex"]`).First()
	}
	if scriptType := script.AttrOr("type", ""); strings.HasPrefix(scriptType, "math/tex") {
		if tex := strings.TrimSpace(script.Text()); tex != "" {
			return &Formula{
				TeX:     tex,
				Display: display || strings.Contains(scriptType, "mode=display"),
				Engine:  EngineMathJax,
			}, true
		}
	}

	// Explicit data attributes on the element itself.
	for _, attr := range []string{"data-tex", "data-latex"} {
		if tex := strings.TrimSpace(s.AttrOr(attr, "")); tex != "" {
			return &Formula{TeX: tex, Display: display, Engine: engine}, true
		}
	}

	// Wikipedia-style fallback images carry the TeX in alt text.
	if alt := mathImageAlt(s); alt != "" {
		return &Formula{TeX: alt, Display: display, Engine: EngineTexvc}, true
	}

	// Last resort: reconstruct from rendered plain text. Explicitly
	// lossy; only reached when no structured encoding exists.
	if tex := reconstructTeX(s.Text()); tex != "" {
		return &Formula{TeX: tex, Display: display, Engine: engine}, true
	}

	return nil, false
}

// isDisplayMath reports whether the element renders as block (display)
// math under its engine's convention.
func isDisplayMath(s *goquery.Selection) bool {
	switch nodeName(s) {
	case "math":
		return s.AttrOr("display", "") == "block"
	case "mjx-container":
		return s.AttrOr("display", "") == "true"
	case "script":
		return strings.Contains(s.AttrOr("type", ""), "mode=display")
	}
	classes := " " + s.AttrOr("class", "") + " "
	for _, marker := range []string{"katex-display", "MathJax_Display", "MathJax_SVG_Display", "mwe-math-fallback-image-display"} {
		if strings.Contains(classes, " "+marker+" ") {
			return true
		}
	}
	return s.Find(".katex-display").Length() > 0
}

// mathImageAlt finds a texvc fallback image alt text in or at the element.
func mathImageAlt(s *goquery.Selection) string {
	img := s
	if nodeName(s) != "img" {
		img = s.Find("img.mwe-math-fallback-image-inline, img.mwe-math-fallback-image-display").First()
	}
	if img.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(img.AttrOr("alt", ""))
}

// firstText returns the trimmed text of the first descendant matching the
// selector.
func firstText(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}

// reconstructTeX applies best-effort pattern rules to rendered plain
// text. The rules mirror observed rendering quirks of specific engines
// and are not a general algorithm; they may misfire on coincidentally
// symmetric input.
func reconstructTeX(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// Command escape present: keep the substring framed by the first
	// escape command. Engines that duplicate the rendered glyph place
	// the accessible TeX copy last.
	if i := strings.IndexByte(text, '\\'); i >= 0 {
		return strings.TrimSpace(text[i:])
	}

	// Rendered glyph duplicated around the accessible copy: exactly two
	// identical halves means the half is the source.
	runes := []rune(text)
	if n := len(runes); n%2 == 0 && n > 0 {
		if string(runes[:n/2]) == string(runes[n/2:]) {
			return string(runes[:n/2])
		}
	}

	// Common prefix/suffix around a differing middle: the middle is the
	// source.
	if mid := trimSymmetric(runes); mid != "" {
		return mid
	}

	// Very short alphanumeric or greek text: take the trailing half
	// (even length) or the whole string.
	if utf8.RuneCountInString(text) <= 3 && isShortSymbol(runes) {
		if len(runes)%2 == 0 {
			return string(runes[len(runes)/2:])
		}
		return text
	}

	return ""
}

// trimSymmetric strips the longest equal prefix/suffix pair and returns
// the non-empty middle, or "" when no symmetric framing exists.
func trimSymmetric(runes []rune) string {
	for k := (len(runes) - 1) / 2; k >= 1; k-- {
		if string(runes[:k]) == string(runes[len(runes)-k:]) {
			return strings.TrimSpace(string(runes[k : len(runes)-k]))
		}
	}
	return ""
}

func isShortSymbol(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return len(runes) > 0
}
