package webclip

// ConvertResult pairs the canonical tree with the asset manifest produced
// while building it.
type ConvertResult struct {
	Root   *Node
	Assets *AssetManifest
}

// Converter transforms article HTML into the canonical AST, registering
// images, formulas, and embeds into a fresh asset manifest. Relative URLs
// are resolved against baseURL.
type Converter interface {
	// Convert never fails on malformed content; unrecognizable nodes are
	// dropped. Only unparseable input returns an error.
	Convert(contentHTML string, baseURL string) (*ConvertResult, error)
}

// HTMLConverter converts HTML directly to Markdown. This is the legacy
// pipeline, bypassing the canonical AST.
type HTMLConverter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}
