package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"client-manager/internal/domain"
	"client-manager/internal/logging"
)

// FileRepository implements domain.StateRepository using a single JSON or YAML file.
// This is a secondary adapter.
type FileRepository struct {
	path   string
	format Format
	mu     sync.Mutex
}

// NewFileRepository creates a new file-based state repository.
// The encoding follows the file extension.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	return &FileRepository{path: path, format: FormatFor(path)}, nil
}

// Path returns the file backing the repository.
func (f *FileRepository) Path() string {
	return f.path
}

// Load reads the state from disk, or returns the defaults if the file does not exist.
func (f *FileRepository) Load() (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debugf("no state at %s, starting from defaults", f.path)
			return domain.DefaultSnapshot(), nil
		}
		return domain.Snapshot{}, fmt.Errorf("read state: %w", err)
	}

	snap, err := Unmarshal(data, f.format)
	if err != nil {
		return domain.Snapshot{}, err
	}
	logging.Tracef("loaded %d devices from %s", len(snap.Devices), f.path)
	return snap, nil
}

// Save writes the whole state to disk atomically.
func (f *FileRepository) Save(snap domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := Marshal(snap, f.format)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	logging.Tracef("saved %d devices to %s", len(snap.Devices), f.path)
	return nil
}
