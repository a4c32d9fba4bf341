package collect_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/mbalicki/webclip"
	"github.com/mbalicki/webclip/collect"
	"github.com/mbalicki/webclip/goquery"
	"github.com/mbalicki/webclip/htmltomarkdown"
	"github.com/mbalicki/webclip/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughLocator returns the input document as the located content.
func passthroughLocator(title string) *mock.Locator {
	return &mock.Locator{
		LocateFn: func(html string, pageURL string) (*webclip.LocateResult, error) {
			return &webclip.LocateResult{Title: title, ContentHTML: html, Source: "body"}, nil
		},
	}
}

func newCollector(locator webclip.ContentLocator) *collect.Collector {
	return &collect.Collector{
		Locator:   locator,
		Converter: goquery.NewConverter(),
		Legacy:    htmltomarkdown.NewConverter(),
	}
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	t.Run("collects a simple article end to end", func(t *testing.T) {
		t.Parallel()

		html := `<article><h1>T</h1><p>Hello <img src="a.png" alt="x">world</p></article>`
		c := newCollector(passthroughLocator("T"))

		resp := c.Collect(context.Background(), collect.Request{
			URL:  "https://example.com/post/1",
			HTML: html,
		})

		require.True(t, resp.Success, resp.Error)
		article := resp.Data
		require.NotNil(t, article)

		assert.Equal(t, "https://example.com/post/1", article.URL)
		assert.Equal(t, "T", article.Title)
		assert.False(t, article.CollectedAt.IsZero())

		require.NotNil(t, article.AST)
		require.Len(t, article.AST.Children, 2)
		assert.Equal(t, webclip.NodeHeading, article.AST.Children[0].Type)
		assert.Equal(t, webclip.NodeParagraph, article.AST.Children[1].Type)

		require.NotNil(t, article.Assets)
		require.Len(t, article.Assets.Images, 1)
		assert.Equal(t, "img-0", article.Assets.Images[0].ID)
		assert.Equal(t, "https://example.com/post/a.png", article.Assets.Images[0].OriginalURL)

		assert.Equal(t, "# T\n\nHello ![x](https://example.com/post/a.png)world", article.Markdown)

		assert.True(t, article.Quality.Pass)
		assert.Equal(t, 1, article.Metrics.Images)
		assert.Equal(t, 3, article.Metrics.WordCount)
		require.Len(t, article.Outline, 1)
		assert.Equal(t, "t", article.Outline[0].Anchor)
	})

	t.Run("flags quality loss when conversion drops images", func(t *testing.T) {
		t.Parallel()

		// Locator reports ten images; converter output keeps six.
		locator := &mock.Locator{
			LocateFn: func(html string, pageURL string) (*webclip.LocateResult, error) {
				return &webclip.LocateResult{ContentHTML: html, Source: "body"}, nil
			},
		}
		converter := &mock.Converter{
			ConvertFn: func(contentHTML string, baseURL string) (*webclip.ConvertResult, error) {
				reg := webclip.NewAssetRegistry(baseURL)
				root := &webclip.Node{Type: webclip.NodeRoot}
				for i := 0; i < 6; i++ {
					id := reg.RegisterImage(fmt.Sprintf("img%d.png", i), webclip.ImageMeta{})
					root.Children = append(root.Children, &webclip.Node{Type: webclip.NodeImageBlock, AssetID: id})
				}
				return &webclip.ConvertResult{Root: root, Assets: reg.Manifest()}, nil
			},
		}

		html := `<div>
			<img src="1.png"><img src="2.png"><img src="3.png"><img src="4.png"><img src="5.png">
			<img src="6.png"><img src="7.png"><img src="8.png"><img src="9.png"><img src="10.png">
		</div>`

		c := &collect.Collector{Locator: locator, Converter: converter}
		resp := c.Collect(context.Background(), collect.Request{URL: "https://example.com/p", HTML: html})

		require.True(t, resp.Success, resp.Error)
		assert.False(t, resp.Data.Quality.Pass)
		assert.True(t, resp.Data.Quality.UseHTMLFallback)
		assert.Contains(t, resp.Data.Quality.Reason, "images")
		assert.NotEmpty(t, resp.Data.HTML, "original HTML rides along for the fallback")
	})

	t.Run("legacy mode produces markdown without an AST", func(t *testing.T) {
		t.Parallel()

		html := `<article><h2>Legacy</h2><p>Converted <strong>directly</strong>.</p></article>`
		c := newCollector(passthroughLocator("Legacy"))

		resp := c.Collect(context.Background(), collect.Request{
			URL:  "https://example.com/p",
			HTML: html,
			Mode: collect.ModeMarkdown,
		})

		require.True(t, resp.Success, resp.Error)
		assert.Nil(t, resp.Data.AST)
		assert.Nil(t, resp.Data.Assets)
		assert.Contains(t, resp.Data.Markdown, "## Legacy")
		assert.Contains(t, resp.Data.Markdown, "**directly**")
	})

	t.Run("legacy mode without a converter fails cleanly", func(t *testing.T) {
		t.Parallel()

		c := &collect.Collector{
			Locator:   passthroughLocator(""),
			Converter: goquery.NewConverter(),
		}

		resp := c.Collect(context.Background(), collect.Request{
			URL:  "https://example.com/p",
			HTML: "<p>content</p>",
			Mode: collect.ModeMarkdown,
		})

		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("empty document fails without invoking the pipeline", func(t *testing.T) {
		t.Parallel()

		c := &collect.Collector{
			Locator: &mock.Locator{LocateFn: func(html, pageURL string) (*webclip.LocateResult, error) {
				t.Fatal("locator must not run for empty input")
				return nil, nil
			}},
		}

		resp := c.Collect(context.Background(), collect.Request{URL: "https://example.com", HTML: "   "})

		assert.False(t, resp.Success)
		assert.Equal(t, "empty document", resp.Error)
	})

	t.Run("locator errors become failure responses", func(t *testing.T) {
		t.Parallel()

		c := &collect.Collector{
			Locator: &mock.Locator{LocateFn: func(html, pageURL string) (*webclip.LocateResult, error) {
				return nil, webclip.Errorf(webclip.EINVALID, "malformed page")
			}},
		}

		resp := c.Collect(context.Background(), collect.Request{URL: "https://example.com", HTML: "<p>x</p>"})

		assert.False(t, resp.Success)
		assert.Equal(t, "malformed page", resp.Error)
	})

	t.Run("panics are converted to failure responses", func(t *testing.T) {
		t.Parallel()

		c := &collect.Collector{
			Locator: &mock.Locator{LocateFn: func(html, pageURL string) (*webclip.LocateResult, error) {
				panic("locator exploded")
			}},
		}

		resp := c.Collect(context.Background(), collect.Request{URL: "https://example.com", HTML: "<p>x</p>"})

		require.NotNil(t, resp)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "locator exploded")
	})

	t.Run("cancelled context fails fast", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := newCollector(passthroughLocator(""))
		resp := c.Collect(ctx, collect.Request{URL: "https://example.com", HTML: "<p>x</p>"})

		assert.False(t, resp.Success)
	})

	t.Run("custom thresholds apply", func(t *testing.T) {
		t.Parallel()

		locator := passthroughLocator("")
		converter := &mock.Converter{
			ConvertFn: func(contentHTML string, baseURL string) (*webclip.ConvertResult, error) {
				// Output keeps none of the input's images.
				return &webclip.ConvertResult{
					Root:   &webclip.Node{Type: webclip.NodeRoot, Children: []*webclip.Node{{Type: webclip.NodeParagraph, Children: []*webclip.Node{webclip.TextNode("text")}}}},
					Assets: &webclip.AssetManifest{},
				}, nil
			},
		}

		c := &collect.Collector{
			Locator:    locator,
			Converter:  converter,
			Thresholds: webclip.QualityThresholds{Images: 1.0, Formulas: 1.0, Tables: 1.0},
		}

		resp := c.Collect(context.Background(), collect.Request{
			URL:  "https://example.com/p",
			HTML: `<div><img src="a.png"><p>text</p></div>`,
		})

		require.True(t, resp.Success, resp.Error)
		assert.True(t, resp.Data.Quality.Pass, "a 100% tolerance accepts total loss")
	})
}
