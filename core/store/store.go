package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"olympics-tracker/feature/standings/models"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means no dataset exists at the configured path.
	ErrNotFound = errors.New("dataset not found")
	// ErrInvalid means the dataset failed schema validation.
	ErrInvalid = errors.New("dataset invalid")
	// ErrWrite means the dataset could not be persisted.
	ErrWrite = errors.New("dataset write failed")
)

// Store owns the persisted snapshot. All reads and writes of the dataset
// document go through it, and every write is validated and atomic.
type Store struct {
	path   string
	logger *zap.Logger
}

// New creates a store for the configured dataset path.
func New(cfg Config, logger *zap.Logger) *Store {
	return &Store{path: cfg.Path, logger: logger}
}

// Path returns the location of the dataset document.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a dataset document is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and validates the persisted snapshot. Each call decodes a
// fresh copy, so callers may mutate the result freely.
func (s *Store) Load() (*models.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run seed first)", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &snap, nil
}

// Replace validates the snapshot and persists it atomically: the document
// is written to a temp file in the same directory and renamed over the
// target, so readers always see either the old or the new complete dataset.
func (s *Store) Replace(snap *models.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrWrite, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.json")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", ErrWrite, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", ErrWrite, err)
	}

	s.logger.Debug("Dataset persisted",
		zap.String("path", s.path),
		zap.Int("bytes", len(raw)))
	return nil
}
