package main

import (
	"fmt"

	"github.com/mbalicki/webclip"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := webclip.ArticleFilter{
		Limit:  c.Limit,
		SortBy: webclip.SortOrder(c.Sort),
	}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'webclip collect' to collect one.")
		return nil
	}

	for _, a := range articles {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", a.ID, a.CollectedAt.Format("2006-01-02"), a.Title, a.URL)
	}

	return nil
}
