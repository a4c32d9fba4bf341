package mock

import "github.com/mbalicki/webclip"

var _ webclip.ContentLocator = (*Locator)(nil)

// Locator is a mock implementation of webclip.ContentLocator.
type Locator struct {
	LocateFn func(html string, pageURL string) (*webclip.LocateResult, error)
}

func (l *Locator) Locate(html string, pageURL string) (*webclip.LocateResult, error) {
	return l.LocateFn(html, pageURL)
}
