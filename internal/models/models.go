package models

import (
	"time"
)

// Keyword is a stored match term. Value is always trimmed and lower-cased.
type Keyword struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// Article represents a persisted feed item
type Article struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	PublishedDate *time.Time `json:"published_date"`
	Summary       string     `json:"summary"`
	Source        string     `json:"source"`
	Tags          string     `json:"tags"` // delimiter-guarded form, e.g. ",a,b,"
	Content       string     `json:"content"`
}

// RawEntry is a single item read from a syndication feed. Empty strings and
// nil times mean the field was absent in the feed.
type RawEntry struct {
	Title     string
	Summary   string
	Link      string
	Published *time.Time
	Updated   *time.Time
}

// Date returns the published timestamp, falling back to updated.
func (e RawEntry) Date() *time.Time {
	if e.Published != nil {
		return e.Published
	}
	return e.Updated
}

// ArticleView is the client-facing shape of an Article
type ArticleView struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	PublishedDate *time.Time `json:"published_date"`
	Summary       string     `json:"summary"`
	Source        string     `json:"source"`
	Tags          []string   `json:"tags"`
}

// ArticlePage is one page of a tag-filtered article query
type ArticlePage struct {
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int           `json:"total"`
	Articles []ArticleView `json:"articles"`
}

// TagInfo is a vocabulary entry, optionally enriched with article presence
type TagInfo struct {
	Tag         string `json:"tag"`
	HasArticles bool   `json:"has_articles"`
}

// KeywordAddResult reports the per-item outcome of a bulk add
type KeywordAddResult struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

// KeywordRemoveResult reports the per-item outcome of a bulk remove
type KeywordRemoveResult struct {
	Removed  []string `json:"removed"`
	NotFound []string `json:"not_found"`
}

// TagRemoveResult reports the per-item outcome of removing canonical tags
type TagRemoveResult struct {
	Removed  []string `json:"removed"`
	NotFound []string `json:"not_found"`
}

// Run statuses
const (
	RunCommitted  = "committed"
	RunRolledBack = "rolled_back"
)

// SourceFailure records a feed that could not be fetched during a run
type SourceFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// RunResult summarizes one ingestion run
type RunResult struct {
	RunID         string          `json:"run_id"`
	Status        string          `json:"status"`
	Added         int             `json:"added"`
	Sources       int             `json:"sources"`
	FailedSources []SourceFailure `json:"failed_sources"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
	Error         string          `json:"error,omitempty"`
}
