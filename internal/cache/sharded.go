package cache

import (
	"github.com/cespare/xxhash/v2"
)

// Sharded spreads key paths over several tries by hashing a partition key, so that
// unrelated types do not contend on the same top-level map.
type Sharded[O any] struct {
	shards []*Trie[O]
}

func NewSharded[O any](numShards int) *Sharded[O] {
	if numShards <= 0 {
		numShards = 1
	}
	shards := make([]*Trie[O], numShards)
	for i := range shards {
		shards[i] = NewTrie[O]()
	}
	return &Sharded[O]{shards: shards}
}

func (s *Sharded[O]) Load(partitionKey string, keys []Key) (O, bool) {
	return s.shard(partitionKey).Load(keys)
}

func (s *Sharded[O]) LoadOrStore(partitionKey string, keys []Key, value O) (O, bool) {
	return s.shard(partitionKey).LoadOrStore(keys, value)
}

func (s *Sharded[O]) LoadOrCompute(partitionKey string, keys []Key, compute func() (O, error)) (O, bool, error) {
	return s.shard(partitionKey).LoadOrCompute(keys, compute)
}

func (s *Sharded[O]) Len() int {
	n := 0
	for _, t := range s.shards {
		n += t.Len()
	}
	return n
}

func (s *Sharded[O]) NumShards() int {
	return len(s.shards)
}

func (s *Sharded[O]) shard(partitionKey string) *Trie[O] {
	return s.shards[indexByHash(partitionKey, len(s.shards))]
}

func indexByHash(key string, numShards int) int {
	switch numShards {
	case 0:
		panic("number of shards cannot be 0")
	case 1:
		return 0
	default:
		return int(xxhash.Sum64String(key) % uint64(numShards))
	}
}
