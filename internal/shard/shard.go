// Package shard spreads an indexedlru.Cache across multiple independently
// locked instances, routing keys to shards with rendezvous (highest random
// weight) hashing so that adding or removing a shard reassigns the minimum
// possible number of keys.
package shard

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	rendezvous "github.com/dgryski/go-rendezvous"

	"github.com/kxlru/indexedlru"
)

// Hasher hashes a key to a uint64, the same contract as indexedlru.Hasher.
type Hasher[K any] interface {
	HashKey(k K) uint64
}

// ShardedCache holds N independent indexedlru.Cache[K,V] instances behind
// per-shard mutexes, routing keys to shards with HRW hashing. It is the
// Go-idiom answer to "a single-threaded core embedded in a concurrent
// service needs some locking story" -- additive ambient infrastructure, not
// part of the core cache's own invariants.
type ShardedCache[K comparable, V any] struct {
	shards []*lockedShard[K, V]
	byName map[string]int
	rv     *rendezvous.Rendezvous
	hasher Hasher[K]
}

type lockedShard[K comparable, V any] struct {
	mu    sync.Mutex
	cache *indexedlru.Cache[K, V]
}

// New builds a ShardedCache with n shards, each an indexedlru.Cache[K,V]
// constructed with the given per-shard capacities. hasher seeds the
// rendezvous weights and must be non-nil.
func New[K comparable, V any](n int, capPerShard, ghostCapPerShard int, updateInterval uint32, ghostBucketCount int, hasher Hasher[K]) *ShardedCache[K, V] {
	if n <= 0 {
		panic("shard: n must be positive")
	}
	if hasher == nil {
		panic("shard: hasher must not be nil")
	}

	names := make([]string, n)
	shards := make([]*lockedShard[K, V], n)
	byName := make(map[string]int, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("shard-%d", i)
		names[i] = name
		byName[name] = i
		shards[i] = &lockedShard[K, V]{
			cache: indexedlru.New[K, V](capPerShard, ghostCapPerShard, updateInterval, ghostBucketCount),
		}
	}

	return &ShardedCache[K, V]{
		shards: shards,
		byName: byName,
		rv:     rendezvous.New(names, xxhash.Sum64String),
		hasher: hasher,
	}
}

func (c *ShardedCache[K, V]) shardFor(key K) *lockedShard[K, V] {
	lookupKey := strconv.FormatUint(c.hasher.HashKey(key), 36)
	name := c.rv.Lookup(lookupKey)
	idx, ok := c.byName[name]
	if !ok {
		// rendezvous.Lookup always returns a name registered in New.
		panic("shard: rendezvous returned unknown node " + name)
	}
	return c.shards[idx]
}

// Put inserts or updates key in its shard, returning the previous value if
// any.
func (c *ShardedCache[K, V]) Put(key K, v V) (old V, hadOld bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Put(key, v)
}

// GetMut promotes key to MRU in its shard and returns its value.
func (c *ShardedCache[K, V]) GetMut(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.GetMut(key, false)
	if !ok {
		var zero V
		return zero, false
	}
	return *v, true
}

// PeekMut reads key's value in its shard without affecting recency.
func (c *ShardedCache[K, V]) PeekMut(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.PeekMut(key)
	if !ok {
		var zero V
		return zero, false
	}
	return *v, true
}

// Len sums the real-region length across all shards.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.cache.Len()
		s.mu.Unlock()
	}
	return total
}

// ShardCount returns the number of shards.
func (c *ShardedCache[K, V]) ShardCount() int {
	return len(c.shards)
}
