// Package hashing provides Hasher implementations for indexedlru.Cache.
package hashing

import (
	"github.com/cespare/xxhash/v2"
)

// StringHasher hashes string keys with xxhash. It satisfies
// indexedlru.Hasher[string].
type StringHasher struct{}

// HashKey returns the xxhash64 digest of k.
func (StringHasher) HashKey(k string) uint64 {
	return xxhash.Sum64String(k)
}

// BytesHasher hashes []byte keys with xxhash. It satisfies
// indexedlru.Hasher[[]byte].
type BytesHasher struct{}

// HashKey returns the xxhash64 digest of k.
func (BytesHasher) HashKey(k []byte) uint64 {
	return xxhash.Sum64(k)
}

// Uint64Hasher mixes an integer key through xxhash so that sequential keys,
// which are common in benchmark workloads, still spread across shards.
type Uint64Hasher struct{}

// HashKey hashes the 8-byte little-endian encoding of k.
func (Uint64Hasher) HashKey(k uint64) uint64 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(k >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}
