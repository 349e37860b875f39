package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ruimartins/status-hunter-back/internal/domain"
)

type entry struct {
	matches   []domain.Match
	createdAt time.Time
	expiresAt time.Time
}

type Config struct {
	TTL        time.Duration
	MaxEntries int
}

// SearchCache keeps recent search results for a short TTL. Searches are
// read-only against the remote store, so serving a stale list only delays
// newly created FOs by at most the TTL. Full status is never cached.
type SearchCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
}

func NewSearchCache(config Config) *SearchCache {
	if config.TTL <= 0 {
		config.TTL = time.Minute
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = 500
	}
	return &SearchCache{
		entries:    make(map[string]entry),
		ttl:        config.TTL,
		maxEntries: config.MaxEntries,
	}
}

func (c *SearchCache) Get(searchType, pattern string) ([]domain.Match, bool) {
	key := signature(searchType, pattern)

	c.mu.RLock()
	cached, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().UTC().After(cached.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneMatches(cached.matches), true
}

func (c *SearchCache) Set(searchType, pattern string, matches []domain.Match) {
	now := time.Now().UTC()
	key := signature(searchType, pattern)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = entry{
		matches:   cloneMatches(matches),
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
}

func signature(searchType, pattern string) string {
	joined := strings.ToLower(strings.TrimSpace(searchType)) + "||" + strings.ToLower(pattern)
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}

func (c *SearchCache) evictOldest() {
	if len(c.entries) == 0 {
		return
	}

	oldestKey := ""
	var oldestAt time.Time
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cached := c.entries[key]
		if oldestKey == "" || cached.createdAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = cached.createdAt
		}
	}
	delete(c.entries, oldestKey)
}

func cloneMatches(matches []domain.Match) []domain.Match {
	if matches == nil {
		return nil
	}
	clone := make([]domain.Match, len(matches))
	copy(clone, matches)
	return clone
}
