package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/epicflow/pkg/graph"
)

// FileStore is a file-based snapshot store for CLI applications.
// Snapshots are stored as JSON files named by ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based snapshot store.
// If baseDir is empty, defaults to ~/.config/epicflow/snapshots/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir is the snapshot directory under the user's config directory.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "epicflow", "snapshots"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "epicflow", "snapshots"), nil
}

func (s *FileStore) snapshotPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Save implements [Store].
func (s *FileStore) Save(ctx context.Context, l graph.Layout, epicHash string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	snap := NewSnapshot(l, epicHash)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.snapshotPath(snap.ID), data, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot file: %w", err)
	}
	return snap.ID, nil
}

// Load implements [Store].
func (s *FileStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := readSnapshot(s.snapshotPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NotFound("snapshot %s", id)
	}
	return snap, err
}

// Latest implements [Store]. It scans every snapshot in the directory.
func (s *FileStore) Latest(ctx context.Context, owner, repo string, number int) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	var latest *Snapshot
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		snap, err := readSnapshot(filepath.Join(s.baseDir, entry.Name()))
		if err != nil || !snap.Matches(owner, repo, number) {
			continue
		}
		if latest == nil || snap.CreatedAt.After(latest.CreatedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, NotFound("no snapshot of %s", locator(owner, repo, number))
	}
	return latest, nil
}

// Delete removes a snapshot. Deleting a missing snapshot is not an error.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.snapshotPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}

// Close implements [Store].
func (s *FileStore) Close() error { return nil }

// Path returns the base directory for snapshot files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

func readSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", filepath.Base(path), err)
	}
	return &snap, nil
}

func locator(owner, repo string, number int) string {
	if owner == "" && repo == "" {
		return fmt.Sprintf("#%d", number)
	}
	return fmt.Sprintf("%s/%s#%d", owner, repo, number)
}
