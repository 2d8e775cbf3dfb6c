package cache

import (
	"sync"
	"sync/atomic"
)

// Key is one element of an ordered key path. It must be comparable.
type Key any

// leaf wraps the last key of a path so that values and deeper branches stored under the
// same key never collide.
type leaf struct {
	key Key
}

// Trie is a grow-only map from ordered key paths to values. Reads are lock-free and a
// path holds at most one value for the lifetime of the trie.
type Trie[O any] struct {
	root *sync.Map
	size atomic.Int64
}

func NewTrie[O any]() *Trie[O] {
	return &Trie[O]{root: &sync.Map{}}
}

// Load returns the value stored under keys without creating intermediate branches.
func (t *Trie[O]) Load(keys []Key) (O, bool) {
	var zero O
	m, k, ok := t.find(keys)
	if !ok {
		return zero, false
	}
	v, ok := m.Load(leaf{k})
	if !ok {
		return zero, false
	}
	return v.(O), true
}

// LoadOrStore keeps the first value stored under keys. It returns the canonical value
// and whether it was already present.
func (t *Trie[O]) LoadOrStore(keys []Key, value O) (O, bool) {
	m, k := t.traverse(keys)
	actual, loaded := m.LoadOrStore(leaf{k}, value)
	if !loaded {
		t.size.Add(1)
	}
	return actual.(O), loaded
}

// LoadOrCompute returns the value under keys, computing it on a miss. Concurrent misses
// may all compute; only the first stored result is kept and every caller receives it.
// Errors are returned to the caller and never stored.
func (t *Trie[O]) LoadOrCompute(keys []Key, compute func() (O, error)) (O, bool, error) {
	if v, ok := t.Load(keys); ok {
		return v, true, nil
	}
	v, err := compute()
	if err != nil {
		var zero O
		return zero, false, err
	}
	actual, loaded := t.LoadOrStore(keys, v)
	return actual, loaded, nil
}

// Len is the number of stored values.
func (t *Trie[O]) Len() int {
	return int(t.size.Load())
}

func (t *Trie[O]) find(keys []Key) (*sync.Map, Key, bool) {
	length := len(keys)
	if length == 0 {
		panic("find: empty keys")
	}

	m := t.root
	for _, k := range keys[:length-1] {
		v, ok := m.Load(k)
		if !ok {
			return nil, nil, false
		}
		m = v.(*sync.Map)
	}
	return m, keys[length-1], true
}

func (t *Trie[O]) traverse(keys []Key) (*sync.Map, Key) {
	length := len(keys)
	if length == 0 {
		panic("traverse: empty keys")
	}

	m := t.root
	for _, k := range keys[:length-1] {
		v, ok := m.Load(k)
		if !ok {
			v, _ = m.LoadOrStore(k, &sync.Map{})
		}
		m = v.(*sync.Map)
	}
	return m, keys[length-1]
}
