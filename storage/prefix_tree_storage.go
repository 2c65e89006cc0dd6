package storage

import (
	"github.com/s0rg/trie"
)

// NewPrefixTreeStorage returns an in-memory backend on a prefix tree.
// Cheaper prefix scans than the skip list, but not safe for concurrent
// use without external locking; it serves single-goroutine tooling.
func NewPrefixTreeStorage[V any]() *prefixTreeStorage[V] {
	return &prefixTreeStorage[V]{trie.New[V]()}
}

type prefixTreeStorage[V any] struct {
	inner *trie.Trie[V]
}

func (s *prefixTreeStorage[V]) Get(key string) (V, error) {
	v, ok := s.inner.Find(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return v, nil
}

func (s *prefixTreeStorage[V]) Set(key string, value V) error {
	s.inner.Add(key, value)
	return nil
}

func (s *prefixTreeStorage[V]) Del(key string) error {
	s.inner.Del(key)
	return nil
}

func (s *prefixTreeStorage[V]) Apply(b Batch[V]) error {
	for _, op := range b.ops {
		if op.del {
			s.inner.Del(op.key)
		} else {
			s.inner.Add(op.key, op.value)
		}
	}
	return nil
}

func (s *prefixTreeStorage[V]) Range(prefix string) (Range[string, V], error) {
	keys, _ := s.inner.Suggest(prefix)
	rng := &sliceRange[V]{}
	for _, k := range keys {
		// SAFETY: the key came out of the trie just above
		v, _ := s.inner.Find(k)
		rng.keys = append(rng.keys, k)
		rng.values = append(rng.values, v)
	}
	return rng, nil
}

func (s *prefixTreeStorage[V]) ToMap() (map[string]V, error) {
	keys, _ := s.inner.Suggest("")
	out := make(map[string]V)
	for _, k := range keys {
		v, _ := s.inner.Find(k)
		out[k] = v
	}
	return out, nil
}
