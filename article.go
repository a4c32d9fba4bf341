package webclip

import (
	"time"
	"unicode/utf8"
)

// Article is the packaged result of one collection run.
type Article struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	Markdown    string            `json:"markdown"`
	HTML        string            `json:"html"`
	AST         *Node             `json:"ast,omitempty"`
	Assets      *AssetManifest    `json:"assets,omitempty"`
	Outline     []Section         `json:"outline,omitempty"`
	Metrics     CollectionMetrics `json:"metrics"`
	Quality     QualityReport     `json:"quality"`
	ContentHash string            `json:"contentHash,omitempty"`
	CollectedAt time.Time         `json:"collectedAt"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	if a.Markdown == "" && a.HTML == "" {
		return Errorf(EINVALID, "article content required")
	}
	return nil
}

// DefaultSummaryLength is the target summary length in runes.
const DefaultSummaryLength = 200

// Summarize produces a plain-text summary from the AST: the tree's text
// content truncated to limit runes (DefaultSummaryLength when limit <= 0)
// with an ellipsis appended on truncation.
func Summarize(root *Node, limit int) string {
	if limit <= 0 {
		limit = DefaultSummaryLength
	}
	text := root.PlainText()
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "…"
}
