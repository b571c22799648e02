package aggregator

import (
	"context"
	"net/http"
	"strings"
	"time"

	"feedtagger/internal/models"

	"github.com/mmcdole/gofeed"
)

const userAgent = "feedtagger/1.0"

// Fetcher retrieves and parses one syndication source
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]models.RawEntry, error)
}

// RSSFetcher reads RSS, Atom and JSON feeds with gofeed
type RSSFetcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewRSSFetcher(timeout time.Duration) *RSSFetcher {
	return &RSSFetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Fetch returns the entries of source. Any failure comes back as a
// *SourceFetchError.
func (f *RSSFetcher) Fetch(ctx context.Context, source string) ([]models.RawEntry, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	// gofeed parsers keep per-parse state, one per call
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = userAgent

	feed, err := parser.ParseURLWithContext(source, ctx)
	if err != nil {
		return nil, &SourceFetchError{Source: source, Err: err}
	}

	entries := make([]models.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		entries = append(entries, models.RawEntry{
			Title:     item.Title,
			Summary:   summary,
			Link:      strings.TrimSpace(item.Link),
			Published: item.PublishedParsed,
			Updated:   item.UpdatedParsed,
		})
	}

	return entries, nil
}
