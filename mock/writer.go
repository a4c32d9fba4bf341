package mock

import (
	"context"

	"github.com/mbalicki/webclip"
)

var _ webclip.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of webclip.ArticleWriter.
type ArticleWriter struct {
	CreateArticleFn func(ctx context.Context, article *webclip.Article) error
}

func (w *ArticleWriter) CreateArticle(ctx context.Context, article *webclip.Article) error {
	return w.CreateArticleFn(ctx, article)
}
