package collect

import (
	"context"
	"net/url"
	"sync/atomic"

	"github.com/mbalicki/webclip"
	"golang.org/x/sync/errgroup"
)

// Batch collects multiple URLs through one Collector. Every run builds
// its own conversion context, so runs never share mutable state and can
// overlap safely.
type Batch struct {
	Fetcher     webclip.Fetcher
	Collector   *Collector
	Store       webclip.ArticleWriter // optional
	RateLimiter webclip.DomainLimiter // optional
	Concurrency int
	Mode        Mode
}

// BatchResult holds the outcome of a batch collection.
type BatchResult struct {
	Articles []*webclip.Article
	Saved    int
	Failed   int
}

// ProgressEvent reports progress during a batch collection.
type ProgressEvent struct {
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

type batchResult struct {
	position int
	url      string
	article  *webclip.Article
	err      error
}

// Run fetches and collects every URL. Failures are per-URL: a URL that
// fails to fetch or collect is counted and reported through progress,
// never aborting the batch. The returned slice preserves input order
// with failed entries omitted.
func (b *Batch) Run(ctx context.Context, urls []string, progress ProgressFunc) (*BatchResult, error) {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	resultCh := make(chan batchResult, len(urls))
	var completed atomic.Int64
	total := len(urls)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, pageURL := range urls {
			g.Go(func() error {
				resultCh <- b.processURL(gctx, i, pageURL)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]batchResult, len(urls))
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result
		if progress != nil {
			progress(ProgressEvent{
				Completed: int(completed.Load()),
				Total:     total,
				URL:       result.url,
				Error:     result.err,
			})
		}
	}

	out := &BatchResult{}
	for _, result := range results {
		if result.err != nil || result.article == nil {
			out.Failed++
			continue
		}
		out.Articles = append(out.Articles, result.article)

		if b.Store == nil {
			continue
		}
		if err := b.Store.CreateArticle(ctx, result.article); err != nil {
			out.Failed++
			continue
		}
		out.Saved++
	}

	return out, ctx.Err()
}

func (b *Batch) processURL(ctx context.Context, position int, pageURL string) batchResult {
	result := batchResult{position: position, url: pageURL}

	if b.RateLimiter != nil {
		if err := b.RateLimiter.Wait(ctx, hostOf(pageURL)); err != nil {
			result.err = err
			return result
		}
	}

	html, err := b.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		result.err = err
		return result
	}

	resp := b.Collector.Collect(ctx, Request{URL: pageURL, HTML: html, Mode: b.Mode})
	if !resp.Success {
		result.err = webclip.Errorf(webclip.EINTERNAL, "%s", resp.Error)
		return result
	}
	result.article = resp.Data
	return result
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
