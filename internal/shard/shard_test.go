package shard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxlru/indexedlru/internal/hashing"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New[string, int](4, 100, 10, 1, 10, hashing.StringHasher{})

	for i := 0; i < 200; i++ {
		c.Put(fmt.Sprintf("key-%d", i), i)
	}

	for i := 0; i < 200; i++ {
		v, ok := c.GetMut(fmt.Sprintf("key-%d", i))
		require.Truef(t, ok, "key-%d should be resident on some shard", i)
		assert.Equal(t, i, v)
	}
}

func TestShardRoutingIsStable(t *testing.T) {
	c := New[string, int](8, 10, 2, 1, 10, hashing.StringHasher{})
	first := c.shardFor("stable-key")
	for i := 0; i < 10; i++ {
		again := c.shardFor("stable-key")
		assert.Same(t, first, again)
	}
}

func TestLenSumsShards(t *testing.T) {
	c := New[string, int](4, 1000, 10, 1, 10, hashing.StringHasher{})
	for i := 0; i < 50; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, 50, c.Len())
}
