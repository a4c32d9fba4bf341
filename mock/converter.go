package mock

import "github.com/mbalicki/webclip"

var _ webclip.Converter = (*Converter)(nil)

// Converter is a mock implementation of webclip.Converter.
type Converter struct {
	ConvertFn func(contentHTML string, baseURL string) (*webclip.ConvertResult, error)
}

func (c *Converter) Convert(contentHTML string, baseURL string) (*webclip.ConvertResult, error) {
	return c.ConvertFn(contentHTML, baseURL)
}
