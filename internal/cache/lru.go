// Package cache memoizes generation results for the MCP and HTTP surfaces.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// Request identifies one generation.
type Request struct {
	Name    string
	Options typegen.Options
	Inputs  []sample.Input
}

// Key returns a sha256 digest over every field of req.
func Key(req Request) (string, error) {
	opts, err := json.Marshal(req.Options)
	if err != nil {
		return "", fmt.Errorf("encoding options: %w", err)
	}
	h := sha256.New()
	writeField(h, []byte(req.Name))
	writeField(h, opts)
	for _, in := range req.Inputs {
		writeField(h, []byte(in.Name))
		writeField(h, []byte(in.ContentType))
		writeField(h, in.Data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// writeField length-prefixes b so adjacent fields cannot run together.
func writeField(h hash.Hash, b []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(b)))
	h.Write(n[:])
	h.Write(b)
}

// ResultCache provides thread-safe LRU caching of generation results.
// Concurrent misses for the same key run one generation. Cached results
// are shared and must be treated as read-only.
type ResultCache struct {
	cache  *lru.Cache[string, *typegen.Result]
	group  singleflight.Group
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a cache holding up to maxItems results. A non-positive
// maxItems disables storage but still collapses concurrent requests.
func New(maxItems int) (*ResultCache, error) {
	c := &ResultCache{}
	if maxItems > 0 {
		l, err := lru.New[string, *typegen.Result](maxItems)
		if err != nil {
			return nil, err
		}
		c.cache = l
	}
	return c, nil
}

// Generate returns the cached result for req or generates it. cached
// reports whether the result came from the cache. Errors are not cached.
func (c *ResultCache) Generate(req Request) (res *typegen.Result, cached bool, err error) {
	key, err := Key(req)
	if err != nil {
		return nil, false, err
	}
	if c.cache != nil {
		if r, ok := c.cache.Get(key); ok {
			c.hits.Add(1)
			return r, true, nil
		}
	}
	c.misses.Add(1)

	// A result shared with concurrent callers was still generated, not
	// served from the cache.
	v, err, _ := c.group.Do(key, func() (any, error) {
		r, err := req.Options.GenerateInputs(req.Name, req.Inputs)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Add(key, r)
		}
		return r, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*typegen.Result), false, nil
}

// Stats returns hit and miss counters.
func (c *ResultCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the current number of cached results.
func (c *ResultCache) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
