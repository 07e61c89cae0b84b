package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
)

const lastDir = "last"

// Entry represents a cached commit message.
type Entry struct {
	Key       string    `json:"key"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	TTL       int       `json:"ttl,omitempty"`
}

// Cache provides file-based caching for generated messages.
type Cache struct {
	dir        string
	ttlSeconds int
	enabled    bool
}

// New creates a new Cache. If dir is empty, uses the default cache directory.
// A disabled cache never serves or stores messages but still records the
// last message per repository.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if dir == "" {
		d, err := defaultCacheDir()
		if err != nil {
			if enabled {
				return nil, err
			}
			d = ""
		}
		dir = d
	}
	if enabled {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating cache directory")
		}
	}
	return &Cache{
		dir:        dir,
		ttlSeconds: ttlSeconds,
		enabled:    enabled,
	}, nil
}

// Get retrieves a cached message by key. Returns ("", false) on miss.
func (c *Cache) Get(key string) (string, bool) {
	if !c.enabled {
		return "", false
	}
	path := c.entryPath(key)
	entry, err := readEntry(path)
	if err != nil {
		return "", false
	}
	if c.expired(entry) {
		_ = os.Remove(path)
		return "", false
	}
	return entry.Message, true
}

// Put stores a message in the cache.
func (c *Cache) Put(key, message string) error {
	if !c.enabled {
		return nil
	}
	return writeEntry(c.entryPath(key), Entry{
		Key:       HashKey(key),
		Message:   message,
		CreatedAt: time.Now(),
		TTL:       c.ttlSeconds,
	})
}

// PutLast records message as the most recent one generated for root.
func (c *Cache) PutLast(root, message string) error {
	if c.dir == "" {
		return nil
	}
	dir := filepath.Join(c.dir, lastDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating last-message directory")
	}
	return writeEntry(c.lastPath(root), Entry{
		Key:       root,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// GetLast returns the most recent message recorded for root.
func (c *Cache) GetLast(root string) (string, bool) {
	if c.dir == "" {
		return "", false
	}
	entry, err := readEntry(c.lastPath(root))
	if err != nil || entry.Message == "" {
		return "", false
	}
	return entry.Message, true
}

// Clear removes all cache entries and last-message records. It returns the
// number of files removed.
func (c *Cache) Clear() (int, error) {
	if c.dir == "" {
		return 0, nil
	}
	removed := 0
	for _, dir := range []string{c.dir, filepath.Join(c.dir, lastDir)} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.Wrap(err, "reading cache directory")
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
				continue
			}
			if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// Stats returns cache statistics.
type Stats struct {
	Dir         string `json:"dir"`
	Enabled     bool   `json:"enabled"`
	Entries     int    `json:"entries"`
	TotalBytes  int64  `json:"totalBytes"`
	Expired     int    `json:"expired"`
	LastRecords int    `json:"lastRecords"`
}

// GetStats returns information about the cache.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir, Enabled: c.enabled}
	if c.dir == "" {
		return stats, nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, errors.Wrap(err, "reading cache directory")
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		entry, err := readEntry(filepath.Join(c.dir, e.Name()))
		if err != nil {
			continue
		}
		if c.expired(entry) {
			stats.Expired++
		}
	}
	if last, err := os.ReadDir(filepath.Join(c.dir, lastDir)); err == nil {
		stats.LastRecords = len(last)
	}
	return stats, nil
}

// Enabled returns whether message caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashKey creates a SHA-256 hash of the given key material.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

// BuildCacheKey creates a cache key from the generation inputs.
func BuildCacheKey(provider, model, prompt string) string {
	return HashKey(fmt.Sprintf("%s:%s:%s", provider, model, prompt))
}

func (c *Cache) expired(e Entry) bool {
	return c.ttlSeconds > 0 && time.Since(e.CreatedAt) > time.Duration(c.ttlSeconds)*time.Second
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, HashKey(key)+".json")
}

func (c *Cache) lastPath(root string) string {
	return filepath.Join(c.dir, lastDir, HashKey(root)+".json")
}

func readEntry(path string) (Entry, error) {
	var entry Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, errors.Wrapf(err, "decoding %s", path)
	}
	return entry, nil
}

func writeEntry(path string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshaling cache entry")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "writing cache entry")
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitscribe"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "gitscribe"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "gitscribe", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "gitscribe", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "gitscribe"), nil
	}
}
