// Package articles serves paginated, tag-filtered reads of stored articles.
package articles

import (
	"context"
	"fmt"

	"feedtagger/internal/models"
	"feedtagger/internal/tags"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Repository is the read side of storage used by the query layer
type Repository interface {
	QueryArticles(ctx context.Context, tokens []string, offset, limit int) ([]models.Article, int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Query returns one page of articles carrying any of the requested tags.
// rawTags may hold repeated values or a single comma-joined value. Page is
// 1-indexed; out-of-range page and page size values are clamped.
func (s *Service) Query(ctx context.Context, rawTags []string, page, pageSize int) (models.ArticlePage, error) {
	page, pageSize = ClampPage(page, pageSize)
	tokens := tags.ParseFilter(rawTags)

	rows, total, err := s.repo.QueryArticles(ctx, tokens, (page-1)*pageSize, pageSize)
	if err != nil {
		return models.ArticlePage{}, fmt.Errorf("failed to query articles: %w", err)
	}

	views := make([]models.ArticleView, len(rows))
	for i, row := range rows {
		views[i] = View(row)
	}

	return models.ArticlePage{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Articles: views,
	}, nil
}

// ClampPage applies the pagination defaults
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// View converts a stored article into its client-facing shape
func View(a models.Article) models.ArticleView {
	return models.ArticleView{
		ID:            a.ID,
		Title:         a.Title,
		URL:           a.URL,
		PublishedDate: a.PublishedDate,
		Summary:       a.Summary,
		Source:        a.Source,
		Tags:          tags.Deserialize(a.Tags),
	}
}
