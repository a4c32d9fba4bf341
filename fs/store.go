package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mbalicki/webclip"
)

// FileStore stages article exports with atomic update semantics: articles
// are written to a temporary directory and moved into place on Commit, so
// a partially-failed batch never clobbers a previous good export.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore. baseDir is the parent directory,
// name is the output directory name. Articles are staged in
// baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// CreateArticle stages one article in the temporary directory.
func (s *FileStore) CreateArticle(ctx context.Context, article *webclip.Article) error {
	return NewWriter(s.tempDir()).CreateArticle(ctx, article)
}

// Commit atomically replaces the final directory with the staged one.
func (s *FileStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return err
	}
	return nil
}

// Abort discards the staged directory.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// Ensure FileStore implements webclip.ArticleWriter at compile time.
var _ webclip.ArticleWriter = (*FileStore)(nil)
