package main

import (
	"fmt"

	"github.com/mbalicki/webclip"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return webclip.Errorf(webclip.EINVALID, "use --force to confirm deletion")
	}

	article, err := deps.Articles.FindArticleByID(deps.Ctx, c.ID)
	if err != nil {
		if webclip.ErrorCode(err) == webclip.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: article %q not found. Use 'webclip list' to see collected articles.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
		}
		return err
	}

	if err := deps.Articles.DeleteArticle(deps.Ctx, article.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted article %q\n", article.Title)
	return nil
}
