package main

import (
	"context"
	"io"

	"github.com/mbalicki/webclip"
	"github.com/mbalicki/webclip/collect"
	wchttp "github.com/mbalicki/webclip/http"
	"github.com/mbalicki/webclip/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	DB          *sqlite.DB
	Articles    webclip.ArticleService
	Collector   *collect.Collector
	Fetcher     webclip.Fetcher
	RateLimiter webclip.DomainLimiter
	Sessions    *wchttp.SessionProber
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Collect  CollectCmd  `cmd:"" help:"Fetch and collect articles from URLs"`
	File     FileCmd     `cmd:"" help:"Collect an article from a local HTML file"`
	List     ListCmd     `cmd:"" help:"List collected articles"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a collected article"`
	Sessions SessionsCmd `cmd:"" help:"Show login state for supported platforms"`
}

// CollectCmd is the "collect" subcommand.
type CollectCmd struct {
	URLs        []string `arg:"" help:"Article URLs to collect"`
	Mode        string   `default:"ast" enum:"ast,markdown" help:"Pipeline mode"`
	Out         string   `short:"o" help:"Export Markdown files to a directory instead of the database"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent fetch limit"`
	Rate        float64  `default:"1" help:"Requests per second per domain"`
	UserAgent   string   `help:"Override the User-Agent header"`
	JSON        bool     `help:"Print collected articles as JSON"`
}

// FileCmd is the "file" subcommand.
type FileCmd struct {
	Path string `arg:"" help:"Path to a local HTML file"`
	URL  string `short:"u" help:"Original page URL, used to resolve relative links"`
	Mode string `default:"ast" enum:"ast,markdown" help:"Pipeline mode"`
	JSON bool   `help:"Print the collected article as JSON"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	URL   string `help:"Filter by source URL"`
	Limit int    `default:"20" help:"Maximum number of articles to show"`
	Sort  string `default:"collected_at" enum:"collected_at,title" help:"Sort order"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Article ID"`
	Force bool   `help:"Confirm deletion"`
}

// SessionsCmd is the "sessions" subcommand.
type SessionsCmd struct{}
