package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/mbalicki/webclip"
	"github.com/mbalicki/webclip/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func testArticle(url string) *webclip.Article {
	checked := true
	return &webclip.Article{
		URL:      url,
		Title:    "Test Article",
		Summary:  "A short summary.",
		Markdown: "# Test Article\n\nBody.",
		HTML:     "<h1>Test Article</h1><p>Body.</p>",
		AST: &webclip.Node{Type: webclip.NodeRoot, Children: []*webclip.Node{
			{Type: webclip.NodeHeading, Depth: 1, Children: []*webclip.Node{webclip.TextNode("Test Article")}},
			{Type: webclip.NodeListItem, Checked: &checked},
		}},
		Assets: &webclip.AssetManifest{
			Images: []*webclip.ImageAsset{{ID: "img-0", OriginalURL: "https://example.com/a.png", Status: webclip.AssetPending}},
		},
		Outline: []webclip.Section{{Level: 1, Title: "Test Article", Anchor: "test-article"}},
		Metrics: webclip.CollectionMetrics{Images: 1, WordCount: 3},
		Quality: webclip.QualityReport{Pass: true},
	}
}

func TestArticleService_CreateArticle(t *testing.T) {
	t.Parallel()

	t.Run("creates article with generated ID and hash", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		article := testArticle("https://example.com/p/1")
		err := svc.CreateArticle(ctx, article)
		require.NoError(t, err)

		assert.NotEmpty(t, article.ID, "ID should be generated")
		assert.NotEmpty(t, article.ContentHash, "content hash should be computed")
		assert.False(t, article.CollectedAt.IsZero(), "CollectedAt should be set")
	})

	t.Run("identical markdown hashes identically", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		a := testArticle("https://example.com/p/1")
		b := testArticle("https://example.com/p/2")
		require.NoError(t, svc.CreateArticle(ctx, a))
		require.NoError(t, svc.CreateArticle(ctx, b))

		assert.Equal(t, a.ContentHash, b.ContentHash)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects invalid articles", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		err := svc.CreateArticle(context.Background(), &webclip.Article{Title: "no url"})
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})
}

func TestArticleService_FindArticleByID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips all fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		created := testArticle("https://example.com/p/1")
		require.NoError(t, svc.CreateArticle(ctx, created))

		found, err := svc.FindArticleByID(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, created.URL, found.URL)
		assert.Equal(t, created.Title, found.Title)
		assert.Equal(t, created.Markdown, found.Markdown)
		assert.Equal(t, created.ContentHash, found.ContentHash)

		require.NotNil(t, found.AST)
		require.Len(t, found.AST.Children, 2)
		assert.Equal(t, webclip.NodeHeading, found.AST.Children[0].Type)
		require.NotNil(t, found.AST.Children[1].Checked, "checkbox tri-state survives storage")
		assert.True(t, *found.AST.Children[1].Checked)

		require.NotNil(t, found.Assets)
		require.Len(t, found.Assets.Images, 1)
		assert.Equal(t, "img-0", found.Assets.Images[0].ID)

		assert.Equal(t, created.Outline, found.Outline)
		assert.Equal(t, created.Metrics, found.Metrics)
		assert.Equal(t, created.Quality, found.Quality)
	})

	t.Run("returns ENOTFOUND for missing ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		_, err := svc.FindArticleByID(context.Background(), "no-such-id")
		assert.Equal(t, webclip.ENOTFOUND, webclip.ErrorCode(err))
	})
}

func TestArticleService_FindArticles(t *testing.T) {
	t.Parallel()

	t.Run("filters by URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateArticle(ctx, testArticle("https://example.com/p/1")))
		require.NoError(t, svc.CreateArticle(ctx, testArticle("https://example.com/p/2")))

		url := "https://example.com/p/2"
		articles, err := svc.FindArticles(ctx, webclip.ArticleFilter{URL: &url})
		require.NoError(t, err)

		require.Len(t, articles, 1)
		assert.Equal(t, url, articles[0].URL)
	})

	t.Run("sorts by title when requested", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		first := testArticle("https://example.com/p/1")
		first.Title = "Zebra"
		second := testArticle("https://example.com/p/2")
		second.Title = "Aardvark"
		require.NoError(t, svc.CreateArticle(ctx, first))
		require.NoError(t, svc.CreateArticle(ctx, second))

		articles, err := svc.FindArticles(ctx, webclip.ArticleFilter{SortBy: webclip.SortByTitle})
		require.NoError(t, err)

		require.Len(t, articles, 2)
		assert.Equal(t, "Aardvark", articles[0].Title)
		assert.Equal(t, "Zebra", articles[1].Title)
	})

	t.Run("newest first by default", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		older := testArticle("https://example.com/p/old")
		older.CollectedAt = time.Now().UTC().Add(-time.Hour)
		newer := testArticle("https://example.com/p/new")
		newer.CollectedAt = time.Now().UTC()
		require.NoError(t, svc.CreateArticle(ctx, older))
		require.NoError(t, svc.CreateArticle(ctx, newer))

		articles, err := svc.FindArticles(ctx, webclip.ArticleFilter{})
		require.NoError(t, err)

		require.Len(t, articles, 2)
		assert.Equal(t, "https://example.com/p/new", articles[0].URL)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		for _, title := range []string{"A", "B", "C"} {
			a := testArticle("https://example.com/p/" + title)
			a.Title = title
			require.NoError(t, svc.CreateArticle(ctx, a))
		}

		articles, err := svc.FindArticles(ctx, webclip.ArticleFilter{
			SortBy: webclip.SortByTitle,
			Limit:  1,
			Offset: 1,
		})
		require.NoError(t, err)

		require.Len(t, articles, 1)
		assert.Equal(t, "B", articles[0].Title)
	})
}

func TestArticleService_DeleteArticle(t *testing.T) {
	t.Parallel()

	t.Run("deletes an existing article", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		article := testArticle("https://example.com/p/1")
		require.NoError(t, svc.CreateArticle(ctx, article))
		require.NoError(t, svc.DeleteArticle(ctx, article.ID))

		_, err := svc.FindArticleByID(ctx, article.ID)
		assert.Equal(t, webclip.ENOTFOUND, webclip.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for missing article", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		err := svc.DeleteArticle(context.Background(), "no-such-id")
		assert.Equal(t, webclip.ENOTFOUND, webclip.ErrorCode(err))
	})
}
