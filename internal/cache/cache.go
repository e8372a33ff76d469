package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"
)

// entryExt is the filename extension for cache entry files.
const entryExt = ".audio"

// entryName matches filenames the cache recognizes as its own entries.
// Clear and Stats only touch matching files, so a shared directory is
// left alone.
var entryName = regexp.MustCompile(`^[0-9a-f]{64}\.audio$`)

// Cache is a flat one-file-per-entry blob store for synthesized audio.
// A single instance owns one directory; no locks are taken, so concurrent
// writers racing on the same key end up last-writer-wins with whatever
// atomicity the filesystem's rename gives them.
type Cache struct {
	dir     string
	enabled bool
}

// New returns a cache backed by dir. The directory is created lazily on
// the first Put. When enabled is false the cache behaves as permanently
// empty: Get always misses and Put and Clear are no-ops.
func New(dir string, enabled bool) *Cache {
	return &Cache{dir: dir, enabled: enabled}
}

// Dir returns the directory backing this cache.
func (c *Cache) Dir() string { return c.dir }

// Enabled reports whether the cache is active.
func (c *Cache) Enabled() bool { return c.enabled }

// Get returns the payload stored under key. The second return value is
// false on a miss: absent key, disabled cache, or an unreadable entry.
// Read failures other than "not found" are logged and degraded to a miss
// so a cache outage never blocks synthesis.
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Cache read failed, treating as miss", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Put persists data under key, creating the cache directory if needed.
// Re-putting an existing key overwrites it. The payload is written to a
// temp file and renamed into place so readers never observe a partial
// entry. A no-op when the cache is disabled.
func (c *Cache) Put(key string, data []byte) error {
	if !c.enabled {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("unable to create cache directory: %w", err)
	}

	path := c.entryPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("unable to write cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("unable to write cache entry: %w", err)
	}
	return nil
}

// Clear deletes every cache entry in the directory. Files that do not
// match the entry naming scheme are left untouched. Clearing an empty or
// missing directory is not an error.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("unable to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !entryName.MatchString(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("unable to remove cache entry: %w", err)
		}
	}
	return nil
}

// Stats enumerates the cache directory and aggregates entry count and
// total size. Nothing is memoized between calls, so the result reflects
// any Put or Clear that completed before it.
func (c *Cache) Stats() Stats {
	stats := Stats{Enabled: c.enabled, Dir: c.dir}
	if !c.enabled {
		return stats
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Cache stats enumeration failed", "dir", c.dir, "error", err)
		}
		return stats
	}
	for _, entry := range entries {
		if entry.IsDir() || !entryName.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.Items++
		stats.TotalBytes += info.Size()
	}
	stats.SizeMB = float64(stats.TotalBytes) / bytesPerMB
	return stats
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}
