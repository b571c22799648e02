package aggregator

import (
	"sort"
	"strings"
	"time"

	"feedtagger/internal/models"
)

// IsRecent reports whether published lies strictly inside the window of
// daysLimit days before now. Entries without a date are never recent.
func IsRecent(published *time.Time, now time.Time, daysLimit int) bool {
	if published == nil {
		return false
	}
	return now.Sub(*published) < time.Duration(daysLimit)*24*time.Hour
}

// Match returns the sorted, de-duplicated keywords contained in the entry's
// title and summary. Containment is plain substring, so "ai" also matches
// inside "said".
func Match(entry models.RawEntry, keywords []string) []string {
	text := strings.ToLower(entry.Title + " " + entry.Summary)

	set := make(map[string]struct{})
	for _, keyword := range keywords {
		keyword = strings.ToLower(keyword)
		if keyword == "" {
			continue
		}
		if strings.Contains(text, keyword) {
			set[keyword] = struct{}{}
		}
	}

	matched := make([]string, 0, len(set))
	for keyword := range set {
		matched = append(matched, keyword)
	}
	sort.Strings(matched)

	return matched
}
