package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bankdigest-dev/bankdigest/internal/model"
)

// Store persists the statement dataset as a single CSV file. Save replaces
// the whole file; Merge is a pure function over snapshots. The store is not
// safe for concurrent runs against the same file; the scheduler guarantees
// one pipeline run at a time.
type Store struct {
	path string
}

// New creates a Store backed by the CSV file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the dataset file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted dataset. A missing file is an empty dataset.
func (s *Store) Load() ([]model.StatementRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", s.path, err)
	}
	return records, nil
}

// Save replaces the persisted dataset atomically: the new contents are
// written to a temp file in the same directory and renamed over the old one,
// so a reader observes either the prior dataset or the fully merged one.
func (s *Store) Save(records []model.StatementRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dataset dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp dataset: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteRecords(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp dataset: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing dataset %s: %w", s.path, err)
	}
	return nil
}

// Merge combines existing and incoming records. Records sharing a
// (bank, date) key collapse to the last occurrence in concatenation order, so
// incoming always wins over existing and later incoming wins over earlier.
// The result is sorted by date, then bank.
func Merge(existing, incoming []model.StatementRecord) []model.StatementRecord {
	all := make([]model.StatementRecord, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)

	last := make(map[string]int, len(all))
	for i, r := range all {
		last[r.Key()] = i
	}

	merged := make([]model.StatementRecord, 0, len(last))
	for i, r := range all {
		if last[r.Key()] == i {
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date != merged[j].Date {
			return merged[i].Date < merged[j].Date
		}
		return merged[i].Bank < merged[j].Bank
	})
	return merged
}
