package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"

	"outfitengine/wardrobe"
)

// shortlistTTL bounds how long a per-user candidate shortlist stays cached
// before falling back to a fresh retrieval.
const shortlistTTL = 2 * time.Minute

// Shortlist is the cached payload: one slot's ranked candidates.
type Shortlist struct {
	Candidates []Candidate
}

// ShortlistCache is a process-wide bounded LRU keyed by (user_id,
// ruleset_version, context_hash), invalidated on item mutation (per user)
// or ruleset publish (globally). It wraps a ristretto cache with an
// eko/gocache LoadableCache, generalized from a single-key string cache to
// a struct-valued shortlist cache with a per-user invalidation index.
type ShortlistCache struct {
	cache *cache.LoadableCache[Shortlist]

	mu       sync.Mutex
	byUser   map[string]map[string]bool // user_id -> set of cache keys
}

// LoadFunc computes a shortlist on a cache miss.
type LoadFunc func(ctx context.Context, userID string, slot wardrobe.Slot) (Shortlist, error)

// NewShortlistCache builds the cache with a ristretto instance sized for a
// single-process demo deployment.
func NewShortlistCache(load LoadFunc) (*ShortlistCache, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("index: init ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache, store.WithExpiration(shortlistTTL))

	sc := &ShortlistCache{byUser: map[string]map[string]bool{}}

	loadFunction := func(ctx context.Context, key any) (Shortlist, error) {
		k, ok := key.(cacheKey)
		if !ok {
			return Shortlist{}, fmt.Errorf("index: unexpected cache key type %T", key)
		}
		result, err := load(ctx, k.userID, k.slot)
		if err != nil {
			return Shortlist{}, err
		}
		return result, nil
	}

	sc.cache = cache.NewLoadable[Shortlist](loadFunction, cache.New[Shortlist](ristrettoStore))
	return sc, nil
}

type cacheKey struct {
	userID string
	slot   wardrobe.Slot
	hash   string
}

func (k cacheKey) String() string {
	return fmt.Sprintf("shortlist:%s:%s:%s", k.userID, k.slot, k.hash)
}

// GetCacheKey makes the cache store entries under String(), the same key
// InvalidateUser deletes by.
func (k cacheKey) GetCacheKey() string { return k.String() }

// ContextHash hashes the parts of context/ruleset that affect a shortlist
// into the "(user_id, ruleset_version, context_hash)" cache key.
func ContextHash(rulesetVersion string, ctx wardrobe.Context, allowCatalog bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s|%v", rulesetVersion, ctx.Occasion, ctx.TargetDressiness, ctx.TemperatureBand, allowCatalog)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Get returns the cached shortlist for (userID, slot, contextHash), loading
// it via LoadFunc on a miss.
func (c *ShortlistCache) Get(ctx context.Context, userID string, slot wardrobe.Slot, contextHash string, ttl time.Duration) (Shortlist, error) {
	if ttl <= 0 {
		ttl = shortlistTTL
	}
	key := cacheKey{userID: userID, slot: slot, hash: contextHash}
	result, err := c.cache.Get(ctx, key)
	if err != nil {
		return Shortlist{}, err
	}
	c.mu.Lock()
	if c.byUser[userID] == nil {
		c.byUser[userID] = map[string]bool{}
	}
	c.byUser[userID][key.String()] = true
	c.mu.Unlock()
	return result, nil
}

// InvalidateUser drops every cached shortlist for a user, called when an
// item is added, updated, or removed.
func (c *ShortlistCache) InvalidateUser(ctx context.Context, userID string) error {
	c.mu.Lock()
	keys := c.byUser[userID]
	delete(c.byUser, userID)
	c.mu.Unlock()
	// The tracked key set bounds what's dropped; the underlying ristretto
	// TTL (shortlistTTL) covers any entry that couldn't be evicted eagerly.
	for k := range keys {
		_ = c.cache.Delete(ctx, k)
	}
	return nil
}

// InvalidateAll drops every cached shortlist, called on ruleset publish.
func (c *ShortlistCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	c.byUser = map[string]map[string]bool{}
	c.mu.Unlock()
	return c.cache.Clear(ctx)
}
