// Package tagstore maintains the tag vocabulary offered to clients. An
// operator-saved canonical list wins when present; otherwise the vocabulary
// is derived from the tags carried by stored articles.
package tagstore

import (
	"context"
	"fmt"
	"log"
	"sync"

	"feedtagger/internal/cache"
	"feedtagger/internal/models"
	"feedtagger/internal/tags"
)

// Repository is the article view the vocabulary needs
type Repository interface {
	DistinctTags(ctx context.Context) ([]string, error)
	HasArticlesWithTag(ctx context.Context, token string) (bool, error)
}

type Vocabulary struct {
	store        *FileStore
	repo         Repository
	cacheManager *cache.Manager
	mu           sync.Mutex // serializes read-modify-write of the canonical list
}

func NewVocabulary(store *FileStore, repo Repository, cacheManager *cache.Manager) *Vocabulary {
	return &Vocabulary{
		store:        store,
		repo:         repo,
		cacheManager: cacheManager,
	}
}

// Tags returns the canonical list when one is saved, else the derived one.
// The boolean reports whether the canonical list was used.
func (v *Vocabulary) Tags(ctx context.Context) ([]string, bool, error) {
	canonical, ok, err := v.canonical()
	if err != nil {
		return nil, false, err
	}
	if ok {
		return canonical, true, nil
	}

	derived, err := v.derived(ctx)
	if err != nil {
		return nil, false, err
	}
	return derived, false, nil
}

// TagsWithArticles is Tags with has_articles attached. Derived tags come
// from articles, so they always have articles.
func (v *Vocabulary) TagsWithArticles(ctx context.Context) ([]models.TagInfo, bool, error) {
	list, canonical, err := v.Tags(ctx)
	if err != nil {
		return nil, false, err
	}

	if !canonical {
		infos := make([]models.TagInfo, len(list))
		for i, tag := range list {
			infos[i] = models.TagInfo{Tag: tag, HasArticles: true}
		}
		return infos, false, nil
	}

	infos, err := v.Enrich(ctx, list)
	if err != nil {
		return nil, false, err
	}
	return infos, true, nil
}

// Enrich reports for each tag whether any article carries it. Tags that
// normalize to nothing are never looked up.
func (v *Vocabulary) Enrich(ctx context.Context, list []string) ([]models.TagInfo, error) {
	infos := make([]models.TagInfo, len(list))
	for i, tag := range list {
		infos[i] = models.TagInfo{Tag: tag}

		token := tags.Normalize(tag)
		if token == "" {
			continue
		}

		has, err := v.repo.HasArticlesWithTag(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("failed to enrich tag %q: %w", tag, err)
		}
		infos[i].HasArticles = has
	}
	return infos, nil
}

// Replace saves list as the new canonical vocabulary
func (v *Vocabulary) Replace(ctx context.Context, list []string) ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	saved, err := v.store.Save(list)
	if err != nil {
		return nil, err
	}
	v.cacheManager.SetStrings(cache.KeyCanonicalTags, saved)

	log.Printf("Canonical tag vocabulary replaced with %d tags in %s", len(saved), v.store.Path())
	return saved, nil
}

// Remove drops tags from the canonical vocabulary, matching case-insensitively.
// Without a canonical list the derived vocabulary is taken as the starting
// point and saved as canonical once something is removed.
func (v *Vocabulary) Remove(ctx context.Context, list []string) (models.TagRemoveResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	result := models.TagRemoveResult{Removed: []string{}, NotFound: []string{}}

	current, _, err := v.Tags(ctx)
	if err != nil {
		return result, err
	}

	requested := make(map[string]struct{})
	for _, tag := range list {
		token := tags.Normalize(tag)
		if token == "" {
			continue
		}
		if _, dup := requested[token]; dup {
			continue
		}
		requested[token] = struct{}{}

		found := false
		for _, existing := range current {
			if tags.Normalize(existing) == token {
				found = true
				break
			}
		}
		if found {
			result.Removed = append(result.Removed, token)
		} else {
			result.NotFound = append(result.NotFound, token)
		}
	}

	if len(result.Removed) == 0 {
		return result, nil
	}

	remaining := make([]string, 0, len(current))
	for _, existing := range current {
		if _, drop := requested[tags.Normalize(existing)]; !drop {
			remaining = append(remaining, existing)
		}
	}

	saved, err := v.store.Save(remaining)
	if err != nil {
		return models.TagRemoveResult{}, err
	}
	v.cacheManager.SetStrings(cache.KeyCanonicalTags, saved)

	return result, nil
}

func (v *Vocabulary) canonical() ([]string, bool, error) {
	if cached, found := v.cacheManager.GetStrings(cache.KeyCanonicalTags); found {
		return cached, true, nil
	}

	list, ok, err := v.store.Load()
	if err != nil || !ok {
		return nil, ok, err
	}
	v.cacheManager.SetStrings(cache.KeyCanonicalTags, list)
	return list, true, nil
}

func (v *Vocabulary) derived(ctx context.Context) ([]string, error) {
	if cached, found := v.cacheManager.GetStrings(cache.KeyDerivedTags); found {
		return cached, nil
	}

	list, err := v.repo.DistinctTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive tags: %w", err)
	}
	v.cacheManager.SetStrings(cache.KeyDerivedTags, list)
	return list, nil
}
