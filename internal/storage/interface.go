package storage

import (
	"context"

	"feedtagger/internal/models"
)

// Storage defines the repository the ingestion pipeline and query layer use.
// Implementations provide transactional writes and uniqueness on
// keywords.value and articles.url.
type Storage interface {
	// Keywords
	ListKeywords(ctx context.Context) ([]models.Keyword, error)
	CountKeywords(ctx context.Context) (int, error)
	AddKeywords(ctx context.Context, values []string) (added, skipped []string, err error)
	RemoveKeywords(ctx context.Context, values []string) (removed, notFound []string, err error)

	// Articles
	ArticleExists(ctx context.Context, url string) (bool, error)
	InsertArticles(ctx context.Context, articles []models.Article) (int, error)
	QueryArticles(ctx context.Context, tokens []string, offset, limit int) ([]models.Article, int, error)
	DistinctTags(ctx context.Context) ([]string, error)
	HasArticlesWithTag(ctx context.Context, token string) (bool, error)
	ResetArticles(ctx context.Context) error

	GetDatabaseStats(ctx context.Context) (map[string]interface{}, error)
	Close() error
}
