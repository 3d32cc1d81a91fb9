package indexedlru

// Hasher lets a caller plug in its own key-hashing strategy, the Go analogue
// of the source's with_hasher_in constructors. The cache's own key index is
// Go's built-in generic map (comparable keys, no swappable hash function),
// so Hasher is not consulted for the O(1) lookup path; it is surfaced
// through HashKey for downstream consumers that need a stable,
// caller-chosen hash of a key, e.g. for routing keys to shards the same way
// a custom BuildHasher would route them to buckets. The shard package takes
// its own Hasher for routing and does not call HashKey.
type Hasher[K any] interface {
	HashKey(k K) uint64
}

// HashKey reports the hash of k under the cache's configured Hasher, if
// any. ok is false when the cache was constructed without one.
func (c *Cache[K, V]) HashKey(k K) (h uint64, ok bool) {
	if c.hasher == nil {
		return 0, false
	}
	return c.hasher.HashKey(k), true
}
