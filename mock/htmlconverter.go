package mock

import "github.com/mbalicki/webclip"

var _ webclip.HTMLConverter = (*HTMLConverter)(nil)

// HTMLConverter is a mock implementation of webclip.HTMLConverter.
type HTMLConverter struct {
	ConvertFn func(html string) (string, error)
}

func (c *HTMLConverter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
