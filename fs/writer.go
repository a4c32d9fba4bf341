// Package fs provides file-based export of collected articles: the
// Markdown body with YAML frontmatter, plus a JSON sidecar carrying the
// asset manifest so image/formula references stay resolvable.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mbalicki/webclip"
)

// URLToPath converts an article URL to a relative file path.
// Example: https://example.com/posts/intro → posts/intro.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Handle root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Trailing slash becomes index.md in that directory
	if strings.HasSuffix(path, "/") {
		path += "index.md"
	} else {
		path += ".md"
	}

	// Dot segments must not resolve outside the export directory.
	if !filepath.IsLocal(path) {
		return "", webclip.Errorf(webclip.EINVALID, "path traversal in URL path: %q", u.Path)
	}

	return path, nil
}

// FormatArticle formats an article with YAML frontmatter.
func FormatArticle(article *webclip.Article) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(article.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(article.Title)
	b.WriteString("\ncollected: ")
	b.WriteString(article.CollectedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(article.Markdown)
	return b.String()
}

// Ensure Writer implements webclip.ArticleWriter at compile time.
var _ webclip.ArticleWriter = (*Writer)(nil)

// Writer writes articles as markdown files to a directory. When the
// article carries an asset manifest, a <name>.assets.json sidecar is
// written next to the markdown file.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// CreateArticle writes an article to disk.
func (w *Writer) CreateArticle(ctx context.Context, article *webclip.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(article.URL)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(w.baseDir, relPath)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(fullPath, []byte(FormatArticle(article)), 0644); err != nil {
		return err
	}

	if article.Assets == nil {
		return nil
	}
	manifest, err := json.MarshalIndent(article.Assets, "", "  ")
	if err != nil {
		return err
	}
	sidecar := strings.TrimSuffix(fullPath, ".md") + ".assets.json"
	return os.WriteFile(sidecar, manifest, 0644)
}
