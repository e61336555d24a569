package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/erraggy/poetry2uv/manifest"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cachedManifest is one parse result tracked by parseCache.
type cachedManifest struct {
	result  *manifest.ParseResult
	expires time.Time
}

func (m *cachedManifest) expired(now time.Time) bool {
	return now.After(m.expires)
}

// parseCache is a session-scoped LRU of parsed manifests with per-entry TTL.
// Cached documents are shared between calls, which is safe because
// conversion clones its input.
type parseCache struct {
	entries  *lru.Cache[string, *cachedManifest]
	limit    int
	sweeping atomic.Bool
}

func newParseCache(limit int) *parseCache {
	limit = max(limit, 1)
	entries, err := lru.New[string, *cachedManifest](limit)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &parseCache{entries: entries, limit: limit}
}

var manifestCache = newParseCache(cfg.CacheMaxSize)

func (c *parseCache) lookup(key string) *manifest.ParseResult {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	if entry.expired(time.Now()) {
		c.entries.Remove(key)
		return nil
	}
	return entry.result
}

func (c *parseCache) store(key string, result *manifest.ParseResult, ttl time.Duration) {
	c.entries.Add(key, &cachedManifest{result: result, expires: time.Now().Add(ttl)})
}

func (c *parseCache) sweep() {
	now := time.Now()
	for _, key := range c.entries.Keys() {
		if entry, ok := c.entries.Peek(key); ok && entry.expired(now) {
			c.entries.Remove(key)
		}
	}
}

// startSweeper evicts expired entries every interval until ctx is done.
// At most one sweeper runs per cache.
func (c *parseCache) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeping.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeping.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *parseCache) reset() {
	c.entries.Purge()
}

func (c *parseCache) size() int {
	return c.entries.Len()
}

// cacheKey identifies a manifest input: files by absolute path and
// modification time, inline content by its SHA-256. It returns "" for
// inputs that cannot be keyed.
func cacheKey(m manifestInput) string {
	if m.Content != "" {
		sum := sha256.Sum256([]byte(m.Content))
		return "content:" + hex.EncodeToString(sum[:])
	}
	if m.File == "" {
		return ""
	}
	abs, err := filepath.Abs(m.File)
	if err != nil {
		return ""
	}
	info, err := os.Stat(abs)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano())
}
