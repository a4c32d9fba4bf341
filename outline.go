package webclip

import (
	"strconv"
	"strings"
	"unicode"
)

// Section represents a heading in a collected article.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// Outline walks the AST and returns all headings (H1-H6) with URL-safe
// anchors. Duplicate anchors get numeric suffixes.
func Outline(root *Node) []Section {
	var sections []Section
	anchorCounts := make(map[string]int)

	root.Walk(func(n *Node) {
		if n.Type != NodeHeading {
			return
		}
		title := n.PlainText()
		if title == "" {
			return
		}

		anchor := generateAnchor(title)
		if count, exists := anchorCounts[anchor]; exists {
			anchorCounts[anchor] = count + 1
			anchor = anchor + "-" + strconv.Itoa(count)
		} else {
			anchorCounts[anchor] = 1
		}

		sections = append(sections, Section{
			Level:  n.Depth,
			Title:  title,
			Anchor: anchor,
		})
	})

	return sections
}

// generateAnchor converts a heading title to a URL-safe anchor:
// lowercase, spaces to hyphens, punctuation stripped.
func generateAnchor(title string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
