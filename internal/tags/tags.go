// Package tags implements the delimiter-guarded tag field used by stored
// articles and the token normalization shared by writers and readers.
//
// A tag field wraps every token in the delimiter: {hypersonic, quantum} is
// stored as ",hypersonic,quantum,". Containment of ",token," in a normalized
// field is then an exact token match, never a prefix or suffix hit.
package tags

import (
	"sort"
	"strings"
)

// Delimiter separates and guards tokens in a serialized tag field
const Delimiter = ","

// Normalize turns a keyword or tag into a comparable token
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Valid reports whether a normalized token survives a round trip through a
// tag field. Tokens containing the delimiter would split on read.
func Valid(token string) bool {
	return token != "" && !strings.Contains(token, Delimiter)
}

// Serialize builds the guarded form from the sorted, de-duplicated set of
// normalized tokens. Tokens that are not Valid are dropped. An empty set
// serializes to "".
func Serialize(tokens []string) string {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = Normalize(token)
		if !Valid(token) {
			continue
		}
		set[token] = struct{}{}
	}
	if len(set) == 0 {
		return ""
	}

	unique := make([]string, 0, len(set))
	for token := range set {
		unique = append(unique, token)
	}
	sort.Strings(unique)

	return Delimiter + strings.Join(unique, Delimiter) + Delimiter
}

// Deserialize returns the trimmed tokens of a stored field in stored order.
// Case is preserved so legacy fields read back as written.
func Deserialize(field string) []string {
	parts := strings.Split(field, Delimiter)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// NormalizeField rewrites a stored field into its canonical comparable form:
// tokens trimmed and lower-cased, spaces around delimiters removed, guards on
// both ends. It tolerates fields like ",Hypersonic, Quantum ," written by
// older producers.
func NormalizeField(field string) string {
	tokens := Deserialize(field)
	if len(tokens) == 0 {
		return ""
	}
	for i, token := range tokens {
		tokens[i] = strings.ToLower(token)
	}
	return Delimiter + strings.Join(tokens, Delimiter) + Delimiter
}

// Guard wraps a single token for containment checks against a normalized field
func Guard(token string) string {
	return Delimiter + Normalize(token) + Delimiter
}

// Contains reports whether a stored field carries the token
func Contains(field, token string) bool {
	token = Normalize(token)
	if token == "" {
		return false
	}
	return strings.Contains(NormalizeField(field), Guard(token))
}

// ParseFilter accepts tag filter values given either as repeated parameters
// or as one comma-joined value and returns the de-duplicated tokens in
// first-seen order. Empty tokens are dropped.
func ParseFilter(values []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, Delimiter) {
			token := Normalize(part)
			if token == "" {
				continue
			}
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			result = append(result, token)
		}
	}
	return result
}
