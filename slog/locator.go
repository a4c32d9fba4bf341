// Package slog provides logging decorators for webclip interfaces using
// the standard library's structured logger.
package slog

import (
	"log/slog"
	"time"

	"github.com/mbalicki/webclip"
)

// Ensure LoggingLocator implements webclip.ContentLocator.
var _ webclip.ContentLocator = (*LoggingLocator)(nil)

// LoggingLocator wraps a ContentLocator with debug logging for candidate
// selection.
type LoggingLocator struct {
	next   webclip.ContentLocator
	logger *slog.Logger
}

// NewLoggingLocator creates a new LoggingLocator.
func NewLoggingLocator(next webclip.ContentLocator, logger *slog.Logger) *LoggingLocator {
	return &LoggingLocator{next: next, logger: logger}
}

// Locate delegates to the wrapped locator and logs the winning source.
func (l *LoggingLocator) Locate(html string, pageURL string) (*webclip.LocateResult, error) {
	begin := time.Now()
	result, err := l.next.Locate(html, pageURL)
	if err != nil {
		l.logger.Error("content location failed",
			"url", pageURL,
			"error", err,
			"duration", time.Since(begin),
		)
		return nil, err
	}
	l.logger.Info("content located",
		"url", pageURL,
		"source", result.Source,
		"title", result.Title,
		"bytes", len(result.ContentHTML),
		"duration", time.Since(begin),
	)
	return result, nil
}
