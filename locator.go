package webclip

// LocateResult holds the article content chosen by a ContentLocator.
type LocateResult struct {
	// Title is the article title, from the platform rule's title selector
	// or page metadata. May be empty.
	Title string

	// ContentHTML is the outer HTML of the chosen content root, with the
	// matching platform rule's noise selectors already stripped.
	ContentHTML string

	// Source identifies which candidate won: "platform:<rule id>",
	// "generic", "extractor", or "body".
	Source string
}

// ContentLocator finds the element most likely to be the article body in
// a full page. Implementations must not mutate the caller's input; they
// operate on their own parsed copy of the document.
type ContentLocator interface {
	// Locate returns the best content candidate for the page.
	// The fallback chain ends at <body>, so a parseable page always
	// yields a result; only unparseable input returns an error.
	Locate(html string, pageURL string) (*LocateResult, error)
}
