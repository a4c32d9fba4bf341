package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mbalicki/webclip"
	"github.com/mbalicki/webclip/collect"
)

// Run executes the file command.
func (c *FileCmd) Run(deps *Dependencies) error {
	html, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", c.Path, err)
	}

	resp := deps.Collector.Collect(deps.Ctx, collect.Request{
		URL:  c.URL,
		HTML: string(html),
		Mode: collect.Mode(c.Mode),
	})
	if !resp.Success {
		fmt.Fprintf(deps.Stderr, "error: %s\n", resp.Error)
		return webclip.Errorf(webclip.EINTERNAL, "collection failed: %s", resp.Error)
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Data)
	}

	fmt.Fprintln(deps.Stdout, resp.Data.Markdown)
	return nil
}
