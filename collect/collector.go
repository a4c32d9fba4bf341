// Package collect orchestrates collection runs: content location, AST
// conversion, Markdown serialization, and the quality gate, packaged
// into a well-formed response structure.
package collect

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mbalicki/webclip"
	"github.com/mbalicki/webclip/goquery"
	"github.com/mbalicki/webclip/markdown"
)

// Mode selects the collection pipeline.
type Mode string

// Pipeline modes. ModeAST builds the canonical AST; ModeMarkdown is the
// legacy direct-to-Markdown path.
const (
	ModeAST      Mode = "ast"
	ModeMarkdown Mode = "markdown"
)

// Request is one collection invocation: the page HTML plus its URL.
type Request struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
	Mode Mode   `json:"mode,omitempty"`
}

// Response is the tagged result of a collection run. Success
// discriminates between Data and Error; callers never see a raised
// error from Collect.
type Response struct {
	Success bool             `json:"success"`
	Data    *webclip.Article `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Collector ties the pipeline together per invocation. Each run builds
// its own conversion state, so a single Collector is safe for
// concurrent use.
type Collector struct {
	Locator    webclip.ContentLocator
	Converter  webclip.Converter
	Legacy     webclip.HTMLConverter
	Thresholds webclip.QualityThresholds
}

// Collect runs the pipeline for one request. Any panic in the
// convert/serialize chain is caught here, once, and converted into a
// failure response.
func (c *Collector) Collect(ctx context.Context, req Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = &Response{Success: false, Error: fmt.Sprintf("collection failed: %v", r)}
		}
	}()

	begin := time.Now()

	if strings.TrimSpace(req.HTML) == "" {
		return &Response{Success: false, Error: "empty document"}
	}
	if err := ctx.Err(); err != nil {
		return &Response{Success: false, Error: err.Error()}
	}

	located, err := c.Locator.Locate(req.HTML, req.URL)
	if err != nil {
		return &Response{Success: false, Error: webclip.ErrorMessage(err)}
	}

	// Metrics of the originally-selected DOM, the baseline the quality
	// gate compares the cleaned output against.
	initial := goquery.CountStructural(located.ContentHTML)

	mode := req.Mode
	if mode == "" {
		mode = ModeAST
	}

	var article *webclip.Article
	switch mode {
	case ModeMarkdown:
		article, err = c.collectLegacy(located, initial)
	default:
		article, err = c.collectAST(located, req.URL, initial)
	}
	if err != nil {
		return &Response{Success: false, Error: webclip.ErrorMessage(err)}
	}

	article.URL = req.URL
	article.CollectedAt = time.Now().UTC()
	article.Metrics.ProcessingTime = time.Since(begin).Milliseconds()

	return &Response{Success: true, Data: article}
}

func (c *Collector) collectAST(located *webclip.LocateResult, baseURL string, initial webclip.StructuralMetrics) (*webclip.Article, error) {
	result, err := c.Converter.Convert(located.ContentHTML, baseURL)
	if err != nil {
		return nil, err
	}

	metrics := webclip.ComputeMetrics(result.Root, result.Assets)
	quality := webclip.CheckQuality(initial, webclip.StructuralFromCollection(metrics), c.thresholds())

	return &webclip.Article{
		Title:    located.Title,
		Summary:  webclip.Summarize(result.Root, 0),
		Markdown: markdown.Serialize(result.Root, result.Assets),
		HTML:     located.ContentHTML,
		AST:      result.Root,
		Assets:   result.Assets,
		Outline:  webclip.Outline(result.Root),
		Metrics:  metrics,
		Quality:  quality,
	}, nil
}

// collectLegacy converts located HTML straight to Markdown. The quality
// gate compares against approximate counts recovered from the Markdown
// text, since no manifest exists on this path.
func (c *Collector) collectLegacy(located *webclip.LocateResult, initial webclip.StructuralMetrics) (*webclip.Article, error) {
	if c.Legacy == nil {
		return nil, webclip.Errorf(webclip.EINTERNAL, "legacy converter not configured")
	}

	md, err := c.Legacy.Convert(located.ContentHTML)
	if err != nil {
		return nil, err
	}

	final := markdownStructural(md)
	quality := webclip.CheckQuality(initial, final, c.thresholds())

	text := htmlText(located.ContentHTML)
	return &webclip.Article{
		Title:    located.Title,
		Summary:  truncate(text, webclip.DefaultSummaryLength),
		Markdown: md,
		HTML:     located.ContentHTML,
		Metrics: webclip.CollectionMetrics{
			Images:    final.Images,
			Formulas:  final.Formulas,
			Tables:    final.Tables,
			WordCount: len(strings.Fields(text)),
		},
		Quality: quality,
	}, nil
}

func (c *Collector) thresholds() webclip.QualityThresholds {
	if c.Thresholds == (webclip.QualityThresholds{}) {
		return webclip.DefaultQualityThresholds()
	}
	return c.Thresholds
}

var (
	mdImageRe = regexp.MustCompile(`!\[[^\]]*\]\(`)
	mdTableRe = regexp.MustCompile(`(?m)^\s*\|[ :\-|]+\|\s*$`)
	mdMathRe  = regexp.MustCompile(`\$[^$\n]+\$`)
)

// markdownStructural approximates structural metrics from Markdown text.
// Exact counting would require parsing the Markdown back, which the
// serializer contract deliberately does not support.
func markdownStructural(md string) webclip.StructuralMetrics {
	return webclip.StructuralMetrics{
		Images:   len(mdImageRe.FindAllString(md, -1)) + strings.Count(md, "<img"),
		Formulas: len(mdMathRe.FindAllString(md, -1)),
		Tables:   len(mdTableRe.FindAllString(md, -1)) + strings.Count(md, "<table"),
	}
}

func htmlText(htmlStr string) string {
	text, err := goquery.PlainText(htmlStr)
	if err != nil {
		return ""
	}
	return text
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
