package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/mbalicki/webclip"
	"github.com/mbalicki/webclip/collect"
	"github.com/mbalicki/webclip/goquery"
	"github.com/mbalicki/webclip/htmltomarkdown"
	wchttp "github.com/mbalicki/webclip/http"
	"github.com/mbalicki/webclip/readability"
	wcslog "github.com/mbalicki/webclip/slog"
	"github.com/mbalicki/webclip/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService webclip.ArticleService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webclip"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webclip --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBCLIP_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.ArticleService = sqlite.NewArticleService(m.DB)
	deps.DB = m.DB
	deps.Articles = m.ArticleService

	// Wire the collection pipeline for commands that run it.
	if cmd == "collect" || cmd == "file" {
		logger := stdlog.New(stdlog.NewTextHandler(stderr, &stdlog.HandlerOptions{
			Level: logLevel(cli),
		}))

		extractor := readability.NewExtractor()
		var locator webclip.ContentLocator = goquery.NewLocator(
			goquery.WithExtractor(extractor),
		)
		locator = wcslog.NewLoggingLocator(locator, logger)

		deps.Collector = &collect.Collector{
			Locator:   locator,
			Converter: goquery.NewConverter(),
			Legacy:    htmltomarkdown.NewConverter(),
		}

		if cmd == "collect" {
			var fetchOpts []wchttp.Option
			if cli.Collect.UserAgent != "" {
				fetchOpts = append(fetchOpts, wchttp.WithUserAgent(cli.Collect.UserAgent))
			}
			var fetcher webclip.Fetcher = wchttp.NewFetcher(fetchOpts...)
			fetcher = wcslog.NewLoggingFetcher(fetcher, logger)
			deps.Fetcher = fetcher
			deps.RateLimiter = collect.NewDomainLimiter(cli.Collect.Rate)
		}
	}

	if cmd == "sessions" {
		deps.Sessions = wchttp.NewSessionProber(nil)
	}

	return kongCtx.Run(deps)
}

func logLevel(cli *CLI) stdlog.Level {
	if cli.Verbose {
		return stdlog.LevelDebug
	}
	return stdlog.LevelWarn
}

func defaultDBPath() string {
	if path := os.Getenv("WEBCLIP_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "webclip.db"
	}
	dir := filepath.Join(home, ".webclip")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "webclip.db")
}
