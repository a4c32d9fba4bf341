package webclip

// ExtractResult holds the content recovered by a boilerplate remover.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor isolates main content from an arbitrary page using generic
// readability heuristics. The Content Locator consumes it as one candidate
// source, scored against its own platform-specific selection.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// The title comes from page metadata (meta tags, JSON+LD, etc.).
	Extract(html string) (*ExtractResult, error)
}
