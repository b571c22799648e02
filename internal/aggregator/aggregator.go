package aggregator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"feedtagger/internal/cache"
	"feedtagger/internal/models"
	"feedtagger/internal/storage"
	"feedtagger/internal/tags"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Run states, in order. A run ends in committed or rolled_back, which is
// reported until the next run starts.
const (
	StateIdle       = "idle"
	StateFetching   = "fetching"
	StateFiltering  = "filtering"
	StateMatching   = "matching"
	StateStaged     = "staged"
	StateCommitted  = "committed"
	StateRolledBack = "rolled_back"
)

const defaultTitle = "No Title"

// KeywordSource provides the current match terms
type KeywordSource interface {
	List(ctx context.Context) ([]string, error)
}

// Options controls an ingestion run
type Options struct {
	Feeds     []string
	DaysLimit int
	Workers   int
}

type Aggregator struct {
	cacheManager *cache.Manager
	storage      storage.Storage
	keywords     KeywordSource
	fetcher      Fetcher
	feeds        []string
	daysLimit    int
	workers      int
	now          func() time.Time

	mu    sync.RWMutex
	state string
}

func New(cacheManager *cache.Manager, storage storage.Storage, keywords KeywordSource, fetcher Fetcher, opts Options) *Aggregator {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{
		cacheManager: cacheManager,
		storage:      storage,
		keywords:     keywords,
		fetcher:      fetcher,
		feeds:        opts.Feeds,
		daysLimit:    opts.DaysLimit,
		workers:      workers,
		now:          time.Now,
		state:        StateIdle,
	}
}

// State returns the phase of the run in progress, or the outcome of the
// last run. It is idle before the first run.
func (a *Aggregator) State() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Aggregator) setState(state string) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
}

// sourceEntries is what one source contributed to the run
type sourceEntries struct {
	source  string
	entries []models.RawEntry
}

// RunIngestion fetches every source, stages the matching new entries and
// commits them in one transaction. It always returns; source failures are
// recorded in the result and a failed commit leaves no partial batch.
func (a *Aggregator) RunIngestion(ctx context.Context) models.RunResult {
	result := models.RunResult{
		RunID:         uuid.NewString(),
		Sources:       len(a.feeds),
		FailedSources: []models.SourceFailure{},
		StartedAt:     a.now(),
	}

	log.Printf("Ingestion run %s started with %d sources", result.RunID, len(a.feeds))

	keywords, err := a.keywords.List(ctx)
	if err != nil {
		return a.finish(result, 0, &PersistenceError{Op: "failed to load keywords", Err: err})
	}
	if len(keywords) == 0 {
		log.Printf("Ingestion run %s: no keywords configured; skipping scrape", result.RunID)
		return a.finish(result, 0, nil)
	}

	a.setState(StateFetching)
	fetched := a.fetchAll(ctx, &result)

	a.setState(StateFiltering)
	now := a.now()
	for i := range fetched {
		fetched[i].entries = filterEntries(fetched[i].entries, now, a.daysLimit)
	}

	a.setState(StateMatching)
	var candidates []models.Article
	for _, fs := range fetched {
		candidates = append(candidates, matchEntries(fs.source, fs.entries, keywords)...)
	}

	a.setState(StateStaged)
	batch := a.stage(ctx, candidates)

	added, err := a.storage.InsertArticles(ctx, batch)
	if err != nil {
		return a.finish(result, 0, &PersistenceError{Op: "failed to commit ingestion batch", Err: err})
	}

	if added > 0 {
		a.cacheManager.InvalidateDerivedTags()
	}

	return a.finish(result, added, nil)
}

// fetchAll fetches every source with bounded concurrency. The returned slice
// follows the configured feed order; failed sources come back empty and are
// recorded in result.
func (a *Aggregator) fetchAll(ctx context.Context, result *models.RunResult) []sourceEntries {
	fetched := make([]sourceEntries, len(a.feeds))
	failures := make([]*models.SourceFailure, len(a.feeds))

	var g errgroup.Group
	g.SetLimit(a.workers)

	for i, source := range a.feeds {
		i, source := i, source // per-iteration copies (go directive < 1.22)
		fetched[i].source = source
		g.Go(func() error {
			entries, err := a.fetchSource(ctx, source)
			if err != nil {
				log.Printf("Error fetching feed %s: %v", source, err)
				failures[i] = &models.SourceFailure{Source: source, Error: err.Error()}
				return nil
			}
			fetched[i].entries = entries
			return nil
		})
	}
	// workers never return an error so one bad feed cannot cancel the others
	_ = g.Wait()

	for _, failure := range failures {
		if failure != nil {
			result.FailedSources = append(result.FailedSources, *failure)
		}
	}
	return fetched
}

// fetchSource fetches one feed. A panic inside the feed parser is reported
// as a fetch error.
func (a *Aggregator) fetchSource(ctx context.Context, source string) (entries []models.RawEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
			err = &SourceFetchError{Source: source, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	return a.fetcher.Fetch(ctx, source)
}

// filterEntries keeps recent entries that carry a link, in feed order
func filterEntries(entries []models.RawEntry, now time.Time, daysLimit int) []models.RawEntry {
	kept := make([]models.RawEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Link == "" || !IsRecent(entry.Date(), now, daysLimit) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// matchEntries turns the entries that match at least one keyword into
// articles attributed to source
func matchEntries(source string, entries []models.RawEntry, keywords []string) []models.Article {
	var articles []models.Article
	for _, entry := range entries {
		matched := Match(entry, keywords)
		if len(matched) == 0 {
			continue
		}

		title := entry.Title
		if title == "" {
			title = defaultTitle
		}

		articles = append(articles, models.Article{
			Title:         title,
			URL:           entry.Link,
			PublishedDate: entry.Date(),
			Summary:       entry.Summary,
			Source:        source,
			Tags:          tags.Serialize(matched),
		})
	}
	return articles
}

// stage drops candidates whose URL is already stored or was claimed by an
// earlier candidate. Candidates arrive in feed order, so the first configured
// source carrying a URL wins.
func (a *Aggregator) stage(ctx context.Context, candidates []models.Article) []models.Article {
	seen := make(map[string]struct{}, len(candidates))
	batch := make([]models.Article, 0, len(candidates))

	for _, article := range candidates {
		if _, dup := seen[article.URL]; dup {
			log.Printf("Skipping duplicate article: %s", article.URL)
			continue
		}
		seen[article.URL] = struct{}{}

		exists, err := a.storage.ArticleExists(ctx, article.URL)
		if err != nil {
			log.Printf("Warning: skipping %s, could not check storage: %v", article.URL, err)
			continue
		}
		if exists {
			log.Printf("Skipping stored article: %s", article.URL)
			continue
		}

		batch = append(batch, article)
	}
	return batch
}

func (a *Aggregator) finish(result models.RunResult, added int, err error) models.RunResult {
	result.FinishedAt = a.now()
	result.Added = added

	if err != nil {
		result.Status = models.RunRolledBack
		result.Error = err.Error()
		a.setState(StateRolledBack)
		log.Printf("Ingestion run %s rolled back: %v", result.RunID, err)
		return result
	}

	result.Status = models.RunCommitted
	a.setState(StateCommitted)
	log.Printf("Ingestion run %s finished. %d new articles added (%d/%d sources failed)",
		result.RunID, added, len(result.FailedSources), result.Sources)
	return result
}
