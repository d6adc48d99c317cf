package validate

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/leapstack-labs/kousei/pkg/core"
)

// Cache stores verdicts across validation runs.
type Cache interface {
	Get(ctx context.Context, key string) (Verdict, bool, error)
	Set(ctx context.Context, key string, verdict Verdict) error
}

// CacheKey identifies a candidate by rule, flagged text, surrounding context
// and the mode/guidelines it was judged under. Text is NFKC-normalized so
// width variants share a key.
func CacheKey(issue core.Issue, vctx Context, radius int) string {
	c := newCandidate(0, issue, vctx.Text, radius)
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(norm.NFKC.String(s)))
		h.Write([]byte{0})
	}
	write(issue.RuleID)
	write(c.Target)
	write(c.Excerpt)
	write(strconv.Itoa(c.To - c.From))
	write(string(vctx.Mode))
	for _, id := range vctx.Guidelines {
		write(string(id))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// =============================================================================
// In-memory cache
// =============================================================================

// MemoryCache is an LRU cache with per-entry TTL. Safe for concurrent use.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

type memoryEntry struct {
	key       string
	verdict   Verdict
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most maxSize verdicts for ttl.
// A non-positive ttl keeps entries until they are evicted.
func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryCache{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached verdict for key. Expired entries are removed lazily.
func (c *MemoryCache) Get(_ context.Context, key string) (Verdict, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return Verdict{}, false, nil
	}
	entry := elem.Value.(*memoryEntry)
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		c.remove(elem)
		c.misses.Add(1)
		return Verdict{}, false, nil
	}
	c.lru.MoveToFront(elem)
	c.hits.Add(1)
	return entry.verdict, true, nil
}

// Set stores verdict under key, evicting the least recently used entries
// when full.
func (c *MemoryCache) Set(_ context.Context, key string, verdict Verdict) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.verdict = verdict
		entry.expiresAt = expires
		c.lru.MoveToFront(elem)
		return nil
	}
	for c.lru.Len() >= c.maxSize {
		c.remove(c.lru.Back())
	}
	c.entries[key] = c.lru.PushFront(&memoryEntry{key: key, verdict: verdict, expiresAt: expires})
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// HitRate returns hits / (hits + misses).
func (c *MemoryCache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

func (c *MemoryCache) remove(elem *list.Element) {
	if elem == nil {
		return
	}
	delete(c.entries, elem.Value.(*memoryEntry).key)
	c.lru.Remove(elem)
}
