package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mbalicki/webclip"
)

// CountStructural parses an HTML fragment and counts the structural
// assets the quality gate compares: images, formulas, tables. Unparseable
// input counts as zero of everything.
func CountStructural(htmlStr string) webclip.StructuralMetrics {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return webclip.StructuralMetrics{}
	}
	return CountSelection(doc.Selection)
}

// CountSelection counts structural assets in a DOM subtree. Formula
// counting takes only outermost math containers so nested engine markup
// (e.g. MathML inside a KaTeX span) is not double-counted; images inside
// math containers belong to the formula, not the image count.
func CountSelection(s *goquery.Selection) webclip.StructuralMetrics {
	var m webclip.StructuralMetrics

	s.Find("*").Each(func(_ int, el *goquery.Selection) {
		if IsMathElement(el) && !hasMathAncestor(el) {
			m.Formulas++
		}
	})

	s.Find("img").Each(func(_ int, img *goquery.Selection) {
		if !hasMathAncestor(img) {
			m.Images++
		}
	})

	m.Tables = s.Find("table").Length()
	return m
}

// PlainText returns the whitespace-normalized text content of an HTML
// fragment.
func PlainText(htmlStr string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return "", webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

func hasMathAncestor(s *goquery.Selection) bool {
	return s.Parents().FilterFunction(func(_ int, parent *goquery.Selection) bool {
		return IsMathElement(parent)
	}).Length() > 0
}
