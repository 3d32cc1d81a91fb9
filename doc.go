// Package indexedlru implements an LRU cache with a ghost region,
// epoch-based eviction and bucketed recency histograms.
//
// The cache keeps two regions inside one MRU-ordered list: a real region
// holding live key/value pairs, and a ghost region holding keys whose
// values have already been released. A key's reuse distance -- how many
// other keys have been touched since it was last promoted -- is estimated
// in O(buckets) via monotonic index counters instead of walking the list.
//
// An externally supplied epoch lets callers evict everything last touched
// before a given point in time, which is useful for streaming workloads
// where "recent" is a logical clock rather than wall time.
//
// The cache is not safe for concurrent use; lookups such as GetMut also
// mutate list order and bucket counts. See the shard subpackage for a
// sharded, mutex-guarded wrapper.
package indexedlru
