package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mbalicki/webclip"
)

// Ensure Locator implements webclip.ContentLocator at compile time.
var _ webclip.ContentLocator = (*Locator)(nil)

// Minimum text lengths for accepting a selector candidate. Generic
// selectors carry a higher bar to compensate for their higher
// false-positive rate.
const (
	minPlatformContentLength = 50
	minGenericContentLength  = 100
)

// headingWeight is the per-heading bonus in the content richness score.
const headingWeight = 100

// genericSelectors are common article container conventions, ordered by
// platform popularity. Tried only when no platform rule produced a
// candidate.
var genericSelectors = []string{
	"article",
	"main",
	".post-content",
	".article-content",
	".entry-content",
	".markdown-body",
	"#content",
	".content",
}

// Locator finds the article body in a full page using a priority chain:
// platform-specific selectors, then generic selectors, each scored
// against a pluggable boilerplate-removal extractor, with <body> as the
// final fallback. The locator parses its own copy of the document, so
// noise stripping never touches the caller's input.
type Locator struct {
	rules     []*webclip.PlatformRule
	extractor webclip.Extractor
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithRules replaces the default platform rule table.
func WithRules(rules []*webclip.PlatformRule) LocatorOption {
	return func(l *Locator) {
		l.rules = rules
	}
}

// WithExtractor sets the generic boilerplate remover used as an
// alternate content candidate (e.g. readability.Extractor).
func WithExtractor(e webclip.Extractor) LocatorOption {
	return func(l *Locator) {
		l.extractor = e
	}
}

// NewLocator creates a Locator with the built-in platform rules.
func NewLocator(opts ...LocatorOption) *Locator {
	l := &Locator{rules: webclip.DefaultPlatformRules()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the best content candidate for the page.
func (l *Locator) Locate(htmlStr string, pageURL string) (*webclip.LocateResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}

	var candidate *goquery.Selection
	source := ""
	title := ""

	if rule := webclip.MatchPlatformRule(l.rules, pageURL); rule != nil {
		// Strip known noise before selection. This mutates our parsed
		// copy only; the caller's document is untouched.
		for _, sel := range rule.RemoveSelectors {
			doc.Find(sel).Remove()
		}
		if rule.TitleSelector != "" {
			title = strings.TrimSpace(doc.Find(rule.TitleSelector).First().Text())
		}
		for _, sel := range rule.ContentSelectors {
			el := doc.Find(sel).First()
			if el.Length() > 0 && textLength(el) > minPlatformContentLength {
				candidate = el
				source = "platform:" + rule.ID
				break
			}
		}
	}

	if candidate == nil {
		for _, sel := range genericSelectors {
			el := doc.Find(sel).First()
			if el.Length() > 0 && textLength(el) > minGenericContentLength {
				candidate = el
				source = "generic"
				break
			}
		}
	}

	if title == "" {
		title = pageTitle(doc)
	}

	// Run the generic boilerplate remover independently and keep
	// whichever candidate scores richer.
	candidateScore := 0
	if candidate != nil {
		candidateScore = richness(candidate)
	}
	if l.extractor != nil {
		if extracted, err := l.extractor.Extract(htmlStr); err == nil && extracted != nil && extracted.ContentHTML != "" {
			if score := richnessHTML(extracted.ContentHTML); score > candidateScore {
				if extracted.Title != "" {
					title = extracted.Title
				}
				return &webclip.LocateResult{
					Title:       title,
					ContentHTML: extracted.ContentHTML,
					Source:      "extractor",
				}, nil
			}
		}
	}

	if candidate == nil {
		candidate = doc.Find("body").First()
		if candidate.Length() == 0 {
			candidate = doc.Selection
		}
		source = "body"
	}

	contentHTML, err := goquery.OuterHtml(candidate)
	if err != nil {
		return nil, err
	}
	return &webclip.LocateResult{
		Title:       title,
		ContentHTML: contentHTML,
		Source:      source,
	}, nil
}

// richness scores a candidate: text length plus a fixed bonus per
// heading. Headings are weighted because article bodies carry structure
// that boilerplate regions lack.
func richness(s *goquery.Selection) int {
	return len([]rune(strings.TrimSpace(s.Text()))) + headingWeight*s.Find("h1, h2, h3, h4, h5, h6").Length()
}

func richnessHTML(htmlStr string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return 0
	}
	return richness(doc.Selection)
}

func textLength(s *goquery.Selection) int {
	return len([]rune(strings.TrimSpace(s.Text())))
}

// pageTitle falls back to document metadata when no platform title
// selector matched: og:title, then the title tag, then the first h1.
func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
