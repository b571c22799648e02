// Package keywords maintains the operator-controlled set of match terms.
package keywords

import (
	"context"
	"fmt"
	"log"

	"feedtagger/internal/models"
	"feedtagger/internal/storage"
	"feedtagger/internal/tags"
)

// Store is the keyword source of truth consumed by the matcher
type Store struct {
	storage storage.Storage
}

func New(storage storage.Storage) *Store {
	return &Store{storage: storage}
}

// List returns every stored keyword, sorted
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.storage.ListKeywords(ctx)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Value)
	}
	return values, nil
}

// Add stores the new values of the batch. Values already present, and values
// containing the tag delimiter, are reported as skipped.
func (s *Store) Add(ctx context.Context, values []string) (models.KeywordAddResult, error) {
	incoming := normalizeBatch(values)

	accepted := make([]string, 0, len(incoming))
	var rejected []string
	for _, value := range incoming {
		if !tags.Valid(value) {
			log.Printf("Rejecting keyword %q: contains tag delimiter %q", value, tags.Delimiter)
			rejected = append(rejected, value)
			continue
		}
		accepted = append(accepted, value)
	}

	if len(accepted) == 0 {
		return models.KeywordAddResult{Added: []string{}, Skipped: append([]string{}, rejected...)}, nil
	}

	added, skipped, err := s.storage.AddKeywords(ctx, accepted)
	if err != nil {
		return models.KeywordAddResult{}, fmt.Errorf("failed to add keywords: %w", err)
	}

	return models.KeywordAddResult{Added: added, Skipped: append(skipped, rejected...)}, nil
}

// Remove deletes the values of the batch. Values that are not stored are
// reported as not found.
func (s *Store) Remove(ctx context.Context, values []string) (models.KeywordRemoveResult, error) {
	incoming := normalizeBatch(values)
	if len(incoming) == 0 {
		return models.KeywordRemoveResult{Removed: []string{}, NotFound: []string{}}, nil
	}

	removed, notFound, err := s.storage.RemoveKeywords(ctx, incoming)
	if err != nil {
		return models.KeywordRemoveResult{}, fmt.Errorf("failed to remove keywords: %w", err)
	}

	return models.KeywordRemoveResult{Removed: removed, NotFound: notFound}, nil
}

// Bootstrap seeds the store when it is empty and does nothing otherwise.
// It returns the number of keywords seeded.
func (s *Store) Bootstrap(ctx context.Context, seed []string) (int, error) {
	count, err := s.storage.CountKeywords(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 || len(seed) == 0 {
		return 0, nil
	}

	result, err := s.Add(ctx, seed)
	if err != nil {
		return 0, err
	}

	log.Printf("Seeded %d default keywords", len(result.Added))
	return len(result.Added), nil
}

// normalizeBatch trims and lower-cases each value, drops empties and keeps
// the first occurrence of in-batch duplicates.
func normalizeBatch(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		v := tags.Normalize(value)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
