package tagstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// quoteStripper removes quote characters that clients tend to leave in tags
var quoteStripper = strings.NewReplacer(`"`, "", "“", "", "”", "")

// FileStore persists the canonical vocabulary as a JSON array
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the vocabulary file
func (f *FileStore) Path() string {
	return f.path
}

// Load returns the stored vocabulary. The boolean is false when no
// vocabulary has ever been saved.
func (f *FileStore) Load() ([]string, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read canonical tags: %w", err)
	}

	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, false, fmt.Errorf("failed to parse canonical tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}

	return tags, true, nil
}

// Save replaces the vocabulary. Elements keep their order and duplicates;
// only quote characters are stripped. The file is swapped in by rename so
// readers see either the old or the new list.
func (f *FileStore) Save(tags []string) ([]string, error) {
	cleaned := make([]string, len(tags))
	for i, tag := range tags {
		cleaned[i] = quoteStripper.Replace(tag)
	}

	data, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to encode canonical tags: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create tags directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write canonical tags: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to sync canonical tags: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return nil, fmt.Errorf("failed to replace canonical tags: %w", err)
	}

	return cleaned, nil
}
