package main

import (
	"encoding/json"
	"fmt"

	"github.com/mbalicki/webclip"
	"github.com/mbalicki/webclip/collect"
	"github.com/mbalicki/webclip/fs"
)

// Run executes the collect command.
func (c *CollectCmd) Run(deps *Dependencies) error {
	var store webclip.ArticleWriter = deps.Articles
	if c.Out != "" {
		store = fs.NewWriter(c.Out)
	}

	batch := &collect.Batch{
		Fetcher:     deps.Fetcher,
		Collector:   deps.Collector,
		Store:       store,
		RateLimiter: deps.RateLimiter,
		Concurrency: c.Concurrency,
		Mode:        collect.Mode(c.Mode),
	}
	defer deps.Fetcher.Close()

	result, err := batch.Run(deps.Ctx, c.URLs, func(event collect.ProgressEvent) {
		if event.Error != nil {
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s: %s\n", event.Completed, event.Total, event.URL, webclip.ErrorMessage(event.Error))
			return
		}
		fmt.Fprintf(deps.Stderr, "[%d/%d] %s\n", event.Completed, event.Total, event.URL)
	})
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Articles); err != nil {
			return err
		}
	} else {
		for _, a := range result.Articles {
			fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", a.ID, a.Title, a.URL)
		}
	}

	fmt.Fprintf(deps.Stderr, "Collected %d of %d, saved %d\n", len(result.Articles), len(c.URLs), result.Saved)
	if result.Failed > 0 {
		return webclip.Errorf(webclip.EINTERNAL, "%d of %d URLs failed", result.Failed, len(c.URLs))
	}
	return nil
}
