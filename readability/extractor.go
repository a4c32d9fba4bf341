// Package readability implements webclip.Extractor on top of
// go-shiori/go-readability, the generic boilerplate remover consumed by
// the content locator as an alternate candidate source.
package readability

import (
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/mbalicki/webclip"
)

// Ensure Extractor implements webclip.Extractor at compile time.
var _ webclip.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	parser readability.Parser
}

// Option tunes the underlying readability parser.
type Option func(*Extractor)

// WithCharThreshold sets the minimum character count for a candidate to
// be considered article content.
func WithCharThreshold(n int) Option {
	return func(e *Extractor) {
		e.parser.CharThresholds = n
	}
}

// WithMaxElemsToParse caps how many elements the parser will visit.
// Zero means no limit.
func WithMaxElemsToParse(n int) Option {
	return func(e *Extractor) {
		e.parser.MaxElemsToParse = n
	}
}

// WithTopCandidates sets how many top-scoring candidates are considered
// when picking the content root.
func WithTopCandidates(n int) Option {
	return func(e *Extractor) {
		e.parser.NTopCandidates = n
	}
}

// WithKeepClasses preserves class attributes in the extracted content.
func WithKeepClasses(keep bool) Option {
	return func(e *Extractor) {
		e.parser.KeepClasses = keep
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{parser: readability.NewParser()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*webclip.ExtractResult, error) {
	if rawHTML == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "empty HTML input")
	}

	article, err := e.parser.Parse(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &webclip.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
