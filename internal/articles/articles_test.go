package articles

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"feedtagger/internal/models"
	"feedtagger/internal/storage"
)

type recordingRepo struct {
	tokens        []string
	offset, limit int
	err           error
}

func (r *recordingRepo) QueryArticles(ctx context.Context, tokens []string, offset, limit int) ([]models.Article, int, error) {
	r.tokens, r.offset, r.limit = tokens, offset, limit
	if r.err != nil {
		return nil, 0, r.err
	}
	return nil, 0, nil
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name             string
		page, size       int
		wantPage, wantSz int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize},
		{"negative", -3, -1, 1, DefaultPageSize},
		{"in range", 2, 25, 2, 25},
		{"too large", 1, 1000, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := ClampPage(tt.page, tt.size)
			if page != tt.wantPage || size != tt.wantSz {
				t.Errorf("ClampPage(%d, %d) = (%d, %d), expected (%d, %d)", tt.page, tt.size, page, size, tt.wantPage, tt.wantSz)
			}
		})
	}
}

func TestService_QueryPassesNormalizedFilter(t *testing.T) {
	repo := &recordingRepo{}
	service := NewService(repo)

	page, err := service.Query(context.Background(), []string{" Quantum ,hypersonic", "quantum", ""}, 3, 20)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !reflect.DeepEqual(repo.tokens, []string{"quantum", "hypersonic"}) {
		t.Errorf("Expected normalized tokens, got %v", repo.tokens)
	}
	if repo.offset != 40 || repo.limit != 20 {
		t.Errorf("Expected offset 40 limit 20, got offset %d limit %d", repo.offset, repo.limit)
	}
	if page.Page != 3 || page.PageSize != 20 {
		t.Errorf("Unexpected page metadata: %+v", page)
	}
	if page.Articles == nil {
		t.Error("Expected an empty, non-nil article list")
	}
}

func TestService_QueryWrapsErrors(t *testing.T) {
	cause := errors.New("database is locked")
	service := NewService(&recordingRepo{err: cause})

	if _, err := service.Query(context.Background(), nil, 1, 10); !errors.Is(err, cause) {
		t.Errorf("Expected wrapped cause, got %v", err)
	}
}

func TestService_QueryAgainstStorage(t *testing.T) {
	storageManager, err := storage.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storageManager.Close()

	ctx := context.Background()
	newer := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	older := newer.Add(-24 * time.Hour)

	_, err = storageManager.InsertArticles(ctx, []models.Article{
		{Title: "Legacy", URL: "https://example.com/legacy", Tags: ",Hypersonic, Quantum ,", PublishedDate: &older},
		{Title: "Fresh", URL: "https://example.com/fresh", Tags: ",quantum,", PublishedDate: &newer},
		{Title: "Undated", URL: "https://example.com/undated", Tags: ",quantum,"},
		{Title: "Other", URL: "https://example.com/other", Tags: ",space,", PublishedDate: &newer},
	})
	if err != nil {
		t.Fatalf("Failed to insert articles: %v", err)
	}

	service := NewService(storageManager)

	page, err := service.Query(ctx, []string{"quantum"}, 1, 10)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("Expected 3 matching articles, got %d", page.Total)
	}

	var titles []string
	for _, article := range page.Articles {
		titles = append(titles, article.Title)
	}
	if !reflect.DeepEqual(titles, []string{"Fresh", "Legacy", "Undated"}) {
		t.Errorf("Expected newest first with undated last, got %v", titles)
	}

	legacy := page.Articles[1]
	if !reflect.DeepEqual(legacy.Tags, []string{"Hypersonic", "Quantum"}) {
		t.Errorf("Expected trimmed tags in stored order, got %v", legacy.Tags)
	}
	if page.Articles[2].PublishedDate != nil {
		t.Errorf("Expected undated article to have no date, got %v", page.Articles[2].PublishedDate)
	}

	second, err := service.Query(ctx, []string{"quantum"}, 2, 2)
	if err != nil {
		t.Fatalf("Failed to query second page: %v", err)
	}
	if second.Total != 3 || len(second.Articles) != 1 || second.Articles[0].Title != "Undated" {
		t.Errorf("Unexpected second page: %+v", second)
	}

	all, err := service.Query(ctx, nil, 1, 10)
	if err != nil {
		t.Fatalf("Failed to query without filter: %v", err)
	}
	if all.Total != 4 {
		t.Errorf("Expected 4 articles without filter, got %d", all.Total)
	}
}
