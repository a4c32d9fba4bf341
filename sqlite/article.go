package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/mbalicki/webclip"
)

// Compile-time interface verification.
var _ webclip.ArticleService = (*ArticleService)(nil)

// ArticleService implements webclip.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateArticle persists a new article.
func (s *ArticleService) CreateArticle(ctx context.Context, article *webclip.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	article.ID = uuid.New().String()
	if article.CollectedAt.IsZero() {
		article.CollectedAt = time.Now().UTC()
	}
	article.ContentHash = hashContent(article.Markdown)

	astJSON, err := marshalField(article.AST)
	if err != nil {
		return err
	}
	assetsJSON, err := marshalField(article.Assets)
	if err != nil {
		return err
	}
	outlineJSON, err := marshalField(article.Outline)
	if err != nil {
		return err
	}
	metricsJSON, err := marshalField(article.Metrics)
	if err != nil {
		return err
	}
	qualityJSON, err := marshalField(article.Quality)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (id, url, title, summary, markdown, html, ast_json, assets_json, outline_json, metrics_json, quality_json, content_hash, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, article.ID, article.URL, article.Title, article.Summary, article.Markdown, article.HTML,
		astJSON, assetsJSON, outlineJSON, metricsJSON, qualityJSON,
		article.ContentHash, article.CollectedAt.Format(time.RFC3339))

	return err
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*webclip.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, summary, markdown, html, ast_json, assets_json, outline_json, metrics_json, quality_json, content_hash, collected_at
		FROM articles
		WHERE id = ?
	`, id)

	article, err := scanArticle(row.Scan)
	if err == sql.ErrNoRows {
		return nil, webclip.Errorf(webclip.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// FindArticles retrieves articles matching the filter.
func (s *ArticleService) FindArticles(ctx context.Context, filter webclip.ArticleFilter) ([]*webclip.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, title, summary, markdown, html, ast_json, assets_json, outline_json, metrics_json, quality_json, content_hash, collected_at FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	switch filter.SortBy {
	case webclip.SortByTitle:
		query.WriteString(" ORDER BY title ASC")
	default:
		query.WriteString(" ORDER BY collected_at DESC")
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*webclip.Article
	for rows.Next() {
		article, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

// DeleteArticle permanently removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return webclip.Errorf(webclip.ENOTFOUND, "article not found")
	}

	return nil
}

// scanArticle shares row decoding between single-row and multi-row
// queries.
func scanArticle(scan func(dest ...any) error) (*webclip.Article, error) {
	var article webclip.Article
	var astJSON, assetsJSON, outlineJSON, metricsJSON, qualityJSON, collectedAt string

	if err := scan(&article.ID, &article.URL, &article.Title, &article.Summary,
		&article.Markdown, &article.HTML, &astJSON, &assetsJSON, &outlineJSON,
		&metricsJSON, &qualityJSON, &article.ContentHash, &collectedAt); err != nil {
		return nil, err
	}

	var err error
	article.CollectedAt, err = parseRFC3339(collectedAt, "collected_at")
	if err != nil {
		return nil, err
	}

	if err := unmarshalField(astJSON, &article.AST); err != nil {
		return nil, err
	}
	if err := unmarshalField(assetsJSON, &article.Assets); err != nil {
		return nil, err
	}
	if err := unmarshalField(outlineJSON, &article.Outline); err != nil {
		return nil, err
	}
	if err := unmarshalField(metricsJSON, &article.Metrics); err != nil {
		return nil, err
	}
	if err := unmarshalField(qualityJSON, &article.Quality); err != nil {
		return nil, err
	}

	return &article, nil
}

func marshalField(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalField(data string, v any) error {
	if data == "" || data == "null" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
