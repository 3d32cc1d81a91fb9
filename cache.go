package indexedlru

import (
	"fmt"
	"math"
)

// Sample is the reuse-distance measurement optionally returned by the
// *Sample variants of Put and GetMut.
type Sample struct {
	// Distance estimates how many other keys were touched since this one
	// was last promoted, counted in entries at the granularity of
	// updateInterval-sized buckets.
	Distance uint32
	// WasGhost is true when the sampled key was resurrected from the
	// ghost region rather than hit in the real region.
	WasGhost bool
}

// Cache is an LRU cache with a ghost region, epoch-based eviction and
// bucketed recency histograms. It is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	items map[K]*entry[K, V]

	cap      int
	ghostCap int
	ghostLen int

	// head and tail are sigils that bracket the list. ghostHead is either
	// tail (empty ghost region) or the first dropped node after the last
	// real one.
	head      *entry[K, V]
	tail      *entry[K, V]
	ghostHead *entry[K, V]

	curEpoch uint64

	real  bucketAllocator
	ghost bucketAllocator

	accurateTail bool
	hasher       Hasher[K]
}

// New creates a cache holding at most cap real entries and ghostCap ghost
// entries. updateInterval is the number of assignments each real bucket
// accepts before sealing; ghostBucketCount sizes the ghost bucket width as
// ceil(ghostCap / ghostBucketCount).
func New[K comparable, V any](cap, ghostCap int, updateInterval uint32, ghostBucketCount int) *Cache[K, V] {
	return construct[K, V](cap, ghostCap, updateInterval, ghostBucketCount, nil)
}

// Unbounded creates a cache with no real-region capacity limit.
func Unbounded[K comparable, V any](ghostCap int, updateInterval uint32, ghostBucketCount int) *Cache[K, V] {
	return construct[K, V](math.MaxInt, ghostCap, updateInterval, ghostBucketCount, nil)
}

// NewWithHasher is New plus a pluggable Hasher, surfaced via Cache.HashKey.
func NewWithHasher[K comparable, V any](cap, ghostCap int, updateInterval uint32, ghostBucketCount int, hasher Hasher[K]) *Cache[K, V] {
	return construct[K, V](cap, ghostCap, updateInterval, ghostBucketCount, hasher)
}

// UnboundedWithHasher is Unbounded plus a pluggable Hasher.
func UnboundedWithHasher[K comparable, V any](ghostCap int, updateInterval uint32, ghostBucketCount int, hasher Hasher[K]) *Cache[K, V] {
	return construct[K, V](math.MaxInt, ghostCap, updateInterval, ghostBucketCount, hasher)
}

func construct[K comparable, V any](cap, ghostCap int, updateInterval uint32, ghostBucketCount int, hasher Hasher[K]) *Cache[K, V] {
	head := newSigil[K, V]()
	tail := newSigil[K, V]()
	head.next = tail
	tail.prev = head

	ghostUpdateInterval := ceilDiv(uint64(ghostCap), uint64(ghostBucketCount))

	return &Cache[K, V]{
		items:     make(map[K]*entry[K, V]),
		cap:       cap,
		ghostCap:  ghostCap,
		head:      head,
		tail:      tail,
		ghostHead: tail,
		real:      newBucketAllocator(uint64(updateInterval)),
		ghost:     newBucketAllocator(ghostUpdateInterval),
		hasher:    hasher,
	}
}

// Put inserts or updates k. It returns the previous value, if any.
func (c *Cache[K, V]) Put(k K, v V) (old V, hadOld bool) {
	old, hadOld, _, _ = c.PutSample(k, v, false, false)
	return old, hadOld
}

// PutSample is Put with optional reuse-distance sampling. isUpdate and
// returnDistance gate whether the (possibly expensive) distance sum runs on
// a ghost hit; a real hit always computes it when returnDistance is set.
// hasSample is true whenever k was already present (real or ghost hit).
func (c *Cache[K, V]) PutSample(k K, v V, isUpdate, returnDistance bool) (old V, hadOld bool, sample Sample, hasSample bool) {
	if n, ok := c.items[k]; ok {
		if !n.dropped {
			return c.putRealHit(n, v, returnDistance)
		}
		return c.putGhostHit(n, v, isUpdate, returnDistance)
	}

	if c.cap == 0 {
		return old, false, Sample{}, false
	}

	idx := c.real.alloc()
	node := c.replaceOrCreateNode(k, v, idx)
	attachAt[K, V](c.head, node, c.curEpoch)
	c.items[k] = node
	return old, false, Sample{}, false
}

func (c *Cache[K, V]) putRealHit(n *entry[K, V], v V, returnDistance bool) (old V, hadOld bool, sample Sample, hasSample bool) {
	var dist uint32
	if returnDistance {
		dist = uint32(c.real.distance(n.index))
	}
	// Same-bucket re-hits need no counter churn.
	if n.index != c.real.globalIndex {
		c.real.release(n.index)
		n.index = c.real.alloc()
	}
	old, n.value = n.value, v
	detach[K, V](n)
	attachAt[K, V](c.head, n, c.curEpoch)
	return old, true, Sample{Distance: dist, WasGhost: false}, true
}

func (c *Cache[K, V]) putGhostHit(n *entry[K, V], v V, isUpdate, returnDistance bool) (old V, hadOld bool, sample Sample, hasSample bool) {
	var dist uint32
	if isUpdate && (returnDistance || c.accurateTail) {
		d := c.Len()
		if c.accurateTail {
			d += c.ghost.distance(n.index)
		}
		dist = uint32(d)
	}

	c.ghost.release(n.index)
	if n == c.ghostHead {
		c.ghostHead = n.next
	}
	n.index = c.real.alloc()
	n.value = v
	n.dropped = false
	c.ghostLen--

	detach[K, V](n)
	attachAt[K, V](c.head, n, c.curEpoch)

	if c.Len() > c.cap {
		c.shiftRealTailToGhost()
		if c.ghostLen > c.ghostCap {
			c.evictGhostLRU()
		}
	}

	return old, false, Sample{Distance: dist, WasGhost: true}, true
}

// replaceOrCreateNode obtains a node to hold k/v at bucket index, either by
// allocating a fresh one or -- when the real region is full -- by reusing
// the arena slot of an entry that is being demoted or evicted. The caller
// attaches the returned node at MRU and inserts it into items.
func (c *Cache[K, V]) replaceOrCreateNode(k K, v V, index uint64) *entry[K, V] {
	if c.Len() != c.cap {
		return &entry[K, V]{key: k, value: v, epoch: c.curEpoch, index: index}
	}

	if c.ghostCap > 0 {
		c.shiftRealTailToGhost()
		if c.ghostLen > c.ghostCap {
			n := c.recycle(c.tail.prev, k, v, index, c.ghost.release)
			c.ghostLen--
			return n
		}
		return &entry[K, V]{key: k, value: v, epoch: c.curEpoch, index: index}
	}

	// ghostCap == 0: demoting would only be immediately evicted, so recycle
	// the real LRU directly instead of round-tripping through ghost.
	return c.recycle(c.tail.prev, k, v, index, c.real.release)
}

// recycle removes victim from the map and list and overwrites it in place
// for a new key, releasing its old bucket via the given allocator's release
// method.
func (c *Cache[K, V]) recycle(victim *entry[K, V], k K, v V, index uint64, release func(uint64)) *entry[K, V] {
	delete(c.items, victim.key)
	release(victim.index)
	if victim == c.ghostHead {
		c.ghostHead = victim.next
	}
	detach[K, V](victim)

	victim.key = k
	victim.value = v
	victim.index = index
	victim.dropped = false
	return victim
}

// shiftRealTailToGhost demotes the current real LRU (ghostHead.prev) into
// the ghost region: its value is released and its bucket reassigned from the
// ghost allocator. It never evicts on ghost overflow -- that is left to the
// caller, since some callers (replaceOrCreateNode) recycle the overflow
// victim instead of dropping it.
func (c *Cache[K, V]) shiftRealTailToGhost() {
	n := c.ghostHead.prev
	if n == c.head {
		panic("indexedlru: shiftRealTailToGhost on empty real region")
	}
	var zero V
	n.value = zero
	n.dropped = true
	c.real.release(n.index)
	n.index = c.ghost.alloc()
	c.ghostLen++
	c.ghostHead = n
}

// evictGhostLRU fully removes the ghost LRU (tail.prev) from the map and
// list.
func (c *Cache[K, V]) evictGhostLRU() (key K, hadKey bool) {
	if c.ghostLen == 0 {
		return key, false
	}
	n := c.tail.prev
	key = n.key
	delete(c.items, key)
	c.ghost.release(n.index)
	if n == c.ghostHead {
		c.ghostHead = n.next
	}
	detach[K, V](n)
	c.ghostLen--
	return key, true
}

// PeekMut returns the value for k if k is resident in the real region. It
// never touches list order or bucket counts.
func (c *Cache[K, V]) PeekMut(k K) (*V, bool) {
	n, ok := c.items[k]
	if !ok || n.dropped {
		return nil, false
	}
	return &n.value, true
}

// Contains reports whether k is in the real region. checkGhost must be
// false: true is reserved for ghost-consuming semantics the source never
// implements.
func (c *Cache[K, V]) Contains(k K, checkGhost bool) bool {
	n, ok := c.items[k]
	if !ok {
		return false
	}
	if !n.dropped {
		return true
	}
	if checkGhost {
		panic("indexedlru: checkGhost=true is not implemented")
	}
	return false
}

// GetMut is PeekMut plus MRU promotion and bucket re-stamping on a real hit.
// checkGhost must be false; see Contains.
func (c *Cache[K, V]) GetMut(k K, checkGhost bool) (*V, bool) {
	v, ok, _, _ := c.GetMutSample(k, checkGhost, false)
	return v, ok
}

// GetMutSample is GetMut with optional reuse-distance sampling.
func (c *Cache[K, V]) GetMutSample(k K, checkGhost, returnDistance bool) (*V, bool, Sample, bool) {
	n, ok := c.items[k]
	if !ok {
		return nil, false, Sample{}, false
	}
	if n.dropped {
		if checkGhost {
			panic("indexedlru: checkGhost=true is not implemented")
		}
		return nil, false, Sample{}, false
	}

	var dist uint32
	if returnDistance {
		dist = uint32(c.real.distance(n.index))
	}
	if n.index != c.real.globalIndex {
		c.real.release(n.index)
		n.index = c.real.alloc()
	}
	detach[K, V](n)
	attachAt[K, V](c.head, n, c.curEpoch)
	return &n.value, true, Sample{Distance: dist, WasGhost: false}, true
}

// PopLRU removes the absolute LRU entry regardless of region, returning
// only its key. The value, if the entry was still real, is discarded.
func (c *Cache[K, V]) PopLRU() (key K, ok bool) {
	n := c.tail.prev
	if n == c.head {
		return key, false
	}
	key = n.key
	if !n.dropped {
		c.real.release(n.index)
	} else {
		c.ghost.release(n.index)
		c.ghostLen--
	}
	if n == c.ghostHead {
		c.ghostHead = n.next
	}
	delete(c.items, key)
	detach[K, V](n)
	return key, true
}

// PopLRUOnce demotes the real LRU into the ghost region like
// shiftRealTailToGhost, but hands the released value back instead of
// dropping it. hasKey is true only when the demotion also overflowed the
// ghost region, in which case key is the fully evicted ghost LRU's key.
func (c *Cache[K, V]) PopLRUOnce() (key K, hasKey bool, value V, hasValue bool) {
	n := c.ghostHead.prev
	if n == c.head {
		return key, false, value, false
	}
	value = n.value
	hasValue = true
	c.shiftRealTailToGhost()
	if c.ghostLen > c.ghostCap {
		key, hasKey = c.evictGhostLRU()
	}
	return key, hasKey, value, hasValue
}

// PopLRUByEpoch is PopLRUOnce iff the real LRU's epoch is older than epoch.
func (c *Cache[K, V]) PopLRUByEpoch(epoch uint64) (key K, hasKey bool, value V, hasValue bool) {
	n := c.ghostHead.prev
	if n == c.head || n.epoch >= epoch {
		return key, false, value, false
	}
	return c.PopLRUOnce()
}

// EvictByEpoch demotes every real entry older than epoch into the ghost
// region, in LRU order, evicting the ghost LRU whenever that overflows
// ghost capacity. It stops at the first real LRU whose epoch is at least
// epoch.
func (c *Cache[K, V]) EvictByEpoch(epoch uint64) {
	for {
		n := c.ghostHead.prev
		if n == c.head || n.epoch >= epoch {
			return
		}
		c.shiftRealTailToGhost()
		if c.ghostLen > c.ghostCap {
			c.evictGhostLRU()
		}
	}
}

// AdjustCounters discards sealed buckets that can no longer be referenced
// by any live entry, bounding the memory the bucket maps use. Callers
// invoke it periodically (e.g. every few thousand mutations).
func (c *Cache[K, V]) AdjustCounters() {
	if c.Len() > 0 {
		c.real.compactTo(c.ghostHead.prev.index)
	}
	if c.ghostLen > 0 {
		c.ghost.compactTo(c.tail.prev.index)
	}
}

// UpdateEpoch advances the cache's current epoch. epoch must be strictly
// greater than the current one.
func (c *Cache[K, V]) UpdateEpoch(epoch uint64) {
	if epoch <= c.curEpoch {
		panic(fmt.Sprintf("indexedlru: update_epoch regression: %d <= %d", epoch, c.curEpoch))
	}
	c.curEpoch = epoch
}

// CurrentEpoch returns the latest epoch supplied to UpdateEpoch.
func (c *Cache[K, V]) CurrentEpoch() uint64 {
	return c.curEpoch
}

// ResizeGhost shrinks or grows the ghost region's capacity, evicting via
// PopLRU until within the new bound. PopLRU pops the absolute LRU, which is
// always a ghost entry while the ghost region is non-empty, so for a
// non-negative newCap only ghost entries are evicted and the real region is
// left unchanged.
func (c *Cache[K, V]) ResizeGhost(newCap int) {
	for c.ghostLen > newCap {
		if _, ok := c.PopLRU(); !ok {
			break
		}
	}
	c.ghostCap = newCap
}

// Clear empties the cache, real and ghost regions alike.
func (c *Cache[K, V]) Clear() {
	for {
		if _, ok := c.PopLRU(); !ok {
			break
		}
	}
}

// CheckClear reports whether the cache is in the state Clear leaves it in:
// both regions empty and every bucket counter, current or sealed, at zero.
func (c *Cache[K, V]) CheckClear() bool {
	if c.Len() != 0 || c.ghostLen != 0 ||
		c.real.currentIndexCount != 0 || c.ghost.currentIndexCount != 0 {
		return false
	}
	for _, n := range c.real.counters {
		if n != 0 {
			return false
		}
	}
	for _, n := range c.ghost.counters {
		if n != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of entries in the real region.
func (c *Cache[K, V]) Len() int {
	return len(c.items) - c.ghostLen
}

// GhostLen returns the number of entries in the ghost region.
func (c *Cache[K, V]) GhostLen() int {
	return c.ghostLen
}

// Cap returns the real region's capacity.
func (c *Cache[K, V]) Cap() int {
	return c.cap
}

// GhostCap returns the ghost region's capacity.
func (c *Cache[K, V]) GhostCap() int {
	return c.ghostCap
}

// BucketCount returns the number of real-index buckets currently tracked.
func (c *Cache[K, V]) BucketCount() int {
	return c.real.bucketCount()
}

// GhostBucketCount returns the number of ghost-index buckets currently
// tracked.
func (c *Cache[K, V]) GhostBucketCount() int {
	return c.ghost.bucketCount()
}

// SetAccurateTail toggles whether ghost-to-real promotions also count the
// ghost-region partial distance, rather than just the real-region one.
func (c *Cache[K, V]) SetAccurateTail(accurate bool) {
	c.accurateTail = accurate
}

// String renders a short debug summary, in the spirit of the source's
// Debug impl (len/cap only, not the full list).
func (c *Cache[K, V]) String() string {
	return fmt.Sprintf("Cache{len:%d cap:%d ghost_len:%d ghost_cap:%d epoch:%d}",
		c.Len(), c.cap, c.ghostLen, c.ghostCap, c.curEpoch)
}

// GoString renders the same summary as String, for %#v in debug contexts.
func (c *Cache[K, V]) GoString() string {
	return c.String()
}
