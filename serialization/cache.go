package serialization

import (
	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"

	"github.com/cube2222/octotype/dtype"
)

// Cache memoizes DecodeOwned by encoded bytes.
//
// Views stay stateless; this is the opt-in alternative for readers which decode the same
// schema bytes over and over, e.g. one footer per file. Ristretto does its own locking,
// and cached DTypes are immutable, so a Cache is safe for concurrent use.
// Entries are keyed by a 128-bit hash of the encoding.
type Cache struct {
	cache *ristretto.Cache
}

func NewCache(maxEntries int64) (*Cache, error) {
	if maxEntries <= 0 {
		return nil, errors.Errorf("cache size must be positive, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Every entry costs 1, MaxCost counts entries rather than bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create ristretto cache")
	}
	return &Cache{cache: cache}, nil
}

// Decode returns the cached type for buf, decoding and caching it on a miss.
// Decoding errors aren't cached.
func (c *Cache) Decode(buf []byte) (dtype.DType, error) {
	if cached, ok := c.cache.Get(buf); ok {
		return cached.(dtype.DType), nil
	}
	t, err := DecodeOwned(buf)
	if err != nil {
		return dtype.DType{}, err
	}
	c.cache.Set(buf, t, 1)
	return t, nil
}

// Wait blocks until all pending writes are visible to Decode.
func (c *Cache) Wait() {
	c.cache.Wait()
}

func (c *Cache) Close() {
	c.cache.Close()
}
