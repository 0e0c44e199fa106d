package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

// presignedURLExpiration is the validity window of a presigned read URL
// served out of the cache below.
const presignedURLExpiration = 15 * time.Minute

// cacheCleanupInterval is slightly under presignedURLExpiration so a cached
// entry always expires before the URL it wraps does.
const cacheCleanupInterval = 12 * time.Minute

// URLCacheServiceProvider serves presigned read URLs for item photos,
// memoized so repeated lookups of the same object key don't re-presign.
type URLCacheServiceProvider interface {
	GetReadURL(ctx context.Context, objectKey string) (string, error)
}

// URLCacheService wraps eko/gocache's LoadableCache over a Ristretto store
// for presigned URL memoization, applied here to wardrobe/catalog item
// photo keys.
type URLCacheService struct {
	cache      *cache.LoadableCache[string]
	bucketName string
}

// NewURLCacheService builds a Loadable Ristretto-backed cache in front of
// aws.PresignReadURL.
func NewURLCacheService(aws *AWSService, bucketName string) (*URLCacheService, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	loadFunction := func(ctx context.Context, key any) (string, []store.Option, error) {
		objectKey, ok := key.(string)
		if !ok {
			return "", nil, fmt.Errorf("invalid key type for URL cache: expected string, got %T", key)
		}
		log.Printf("CACHE MISS for photo key: %s. Generating new presigned URL.", objectKey)
		url, err := aws.PresignReadURL(ctx, bucketName, objectKey)
		return url, []store.Option{store.WithExpiration(cacheCleanupInterval)}, err
	}

	loadableCache := cache.NewLoadable[string](
		loadFunction,
		cache.New[string](ristrettoStore),
	)
	return &URLCacheService{cache: loadableCache, bucketName: bucketName}, nil
}

// GetReadURL returns a cached or freshly presigned read URL for objectKey.
func (s *URLCacheService) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return s.cache.Get(ctx, objectKey)
}
