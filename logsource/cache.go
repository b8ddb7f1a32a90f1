package logsource

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

const DefaultCacheSize = 1024

// Cached memoises a Source. Concurrent lookups of the same slot share one
// upstream call; errors are not cached.
type Cached struct {
	src   Source
	cache *lru.Cache[claim.Slot, claim.EventRecord]
	group singleflight.Group
}

func NewCached(src Source, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[claim.Slot, claim.EventRecord](size)
	if err != nil {
		return nil, err
	}
	return &Cached{src: src, cache: cache}, nil
}

func (c *Cached) LookupLog(ctx context.Context, s claim.Slot) (claim.EventRecord, error) {
	if r, ok := c.cache.Get(s); ok {
		return r, nil
	}
	v, err, _ := c.group.Do(s.String(), func() (any, error) {
		r, err := c.src.LookupLog(ctx, s)
		if err != nil {
			return nil, err
		}
		c.cache.Add(s, r)
		return r, nil
	})
	if err != nil {
		return claim.EventRecord{}, err
	}
	return v.(claim.EventRecord), nil
}

// Len reports the number of cached records.
func (c *Cached) Len() int { return c.cache.Len() }
