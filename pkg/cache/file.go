package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache is the CLI's cache backend. Each entry is a JSON file under a
// two-level directory named after the SHA-256 of its key. Use [DefaultDir]
// for the per-user location.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// fileEntry is the on-disk form of one cached value. Key is kept so that
// [FileCache.Stats] can group entries by kind.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e *fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get implements [Cache]. Expired and unreadable entries count as misses
// and are removed.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	entry, err := readEntry(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case errors.Is(err, errCorrupt):
		_ = os.Remove(path)
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	if entry.Key != key || entry.expired(c.now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set implements [Cache]. The entry is written to a temporary file and
// renamed so readers never see a partial write.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := c.now()
	entry := fileEntry{Key: key, Data: data, StoredAt: now}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete implements [Cache].
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close implements [Cache]. It holds no resources.
func (c *FileCache) Close() error { return nil }

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Stats summarizes the entries of a [FileCache].
type Stats struct {
	// Entries counts live entries per key kind (see [KindOf]).
	Entries map[string]int
	// Bytes is the on-disk size of all entries, expired ones included.
	Bytes int64
	// Expired counts entries past their TTL that have not been pruned yet.
	Expired int
	// Corrupt counts files that could not be decoded.
	Corrupt int
}

// Total returns the number of live entries.
func (s Stats) Total() int {
	n := 0
	for _, v := range s.Entries {
		n += v
	}
	return n
}

// Stats walks the cache and reports what it holds.
func (c *FileCache) Stats() (Stats, error) {
	st := Stats{Entries: map[string]int{}}
	now := c.now()
	err := c.walk(func(path string, info fs.FileInfo) error {
		st.Bytes += info.Size()
		entry, err := readEntry(path)
		switch {
		case errors.Is(err, errCorrupt):
			st.Corrupt++
		case err != nil:
			return err
		case entry.expired(now):
			st.Expired++
		default:
			st.Entries[KindOf(entry.Key)]++
		}
		return nil
	})
	return st, err
}

// Prune removes expired and corrupt entries and returns how many it removed.
func (c *FileCache) Prune() (int, error) {
	now := c.now()
	removed := 0
	err := c.walk(func(path string, _ fs.FileInfo) error {
		entry, err := readEntry(path)
		if err != nil && !errors.Is(err, errCorrupt) {
			return err
		}
		if err == nil && !entry.expired(now) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// Clear removes everything under the cache root and returns how many
// entries were removed. The root itself is kept.
func (c *FileCache) Clear() (int, error) {
	removed := 0
	err := c.walk(func(string, fs.FileInfo) error {
		removed++
		return nil
	})
	if err != nil {
		return 0, err
	}
	children, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	for _, child := range children {
		if err := os.RemoveAll(filepath.Join(c.dir, child.Name())); err != nil {
			return 0, err
		}
	}
	return removed, nil
}

// walk calls fn for every entry file. Temporary files are skipped.
func (c *FileCache) walk(fn func(path string, info fs.FileInfo) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// path maps a key to <dir>/<h[:2]>/<h[2:]>.json where h is the key's hash.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var errCorrupt = errors.New("corrupt cache entry")

func readEntry(path string) (*fileEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, errCorrupt
	}
	return &entry, nil
}

var _ Cache = (*FileCache)(nil)

// DefaultDir returns $XDG_CACHE_HOME/epicflow, falling back to
// ~/.cache/epicflow.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "epicflow"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "epicflow"), nil
}
