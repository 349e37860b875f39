package cache

import (
	"testing"
	"time"

	"github.com/ruimartins/status-hunter-back/internal/domain"
)

func TestSearchCacheStoresAndIsolatesResults(t *testing.T) {
	searchCache := NewSearchCache(Config{TTL: time.Minute, MaxEntries: 10})

	matches := []domain.Match{{Type: domain.SearchTypeFO, ID: "fo-1", Label: "FO 12345"}}
	searchCache.Set("fo", "%123%", matches)

	cached, ok := searchCache.Get("fo", "%123%")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if len(cached) != 1 || cached[0].Label != "FO 12345" {
		t.Fatalf("unexpected cached matches: %+v", cached)
	}

	cached[0].Label = "mutated"
	again, ok := searchCache.Get("fo", "%123%")
	if !ok {
		t.Fatalf("expected second cache hit")
	}
	if again[0].Label != "FO 12345" {
		t.Fatalf("expected cache entries to be isolated from callers, got %q", again[0].Label)
	}
}

func TestSearchCacheMissesOnDifferentTypeOrPattern(t *testing.T) {
	searchCache := NewSearchCache(Config{TTL: time.Minute, MaxEntries: 10})
	searchCache.Set("fo", "%123%", []domain.Match{{ID: "fo-1"}})

	if _, ok := searchCache.Get("orc", "%123%"); ok {
		t.Fatalf("expected miss for different type")
	}
	if _, ok := searchCache.Get("fo", "%124%"); ok {
		t.Fatalf("expected miss for different pattern")
	}
}

func TestSearchCacheExpiresEntries(t *testing.T) {
	searchCache := NewSearchCache(Config{TTL: 5 * time.Millisecond, MaxEntries: 10})
	searchCache.Set("fo", "%123%", []domain.Match{{ID: "fo-1"}})

	time.Sleep(20 * time.Millisecond)
	if _, ok := searchCache.Get("fo", "%123%"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestSearchCacheEvictsWhenFull(t *testing.T) {
	searchCache := NewSearchCache(Config{TTL: time.Minute, MaxEntries: 2})
	searchCache.Set("fo", "%1%", []domain.Match{{ID: "fo-1"}})
	searchCache.Set("fo", "%2%", []domain.Match{{ID: "fo-2"}})
	searchCache.Set("fo", "%3%", []domain.Match{{ID: "fo-3"}})

	hits := 0
	for _, pattern := range []string{"%1%", "%2%", "%3%"} {
		if _, ok := searchCache.Get("fo", pattern); ok {
			hits++
		}
	}
	if hits != 2 {
		t.Fatalf("expected eviction to keep the cache at capacity, got %d hits", hits)
	}
}
