package storage

import (
	"strings"

	"github.com/zhangyunhao116/skipmap"
)

// NewSkipmapStorage returns the default in-memory backend: a concurrent
// skip list, ordered by key, safe for lock-free readers.
func NewSkipmapStorage[V any]() *skipmapStorage[V] {
	return &skipmapStorage[V]{skipmap.NewString[V]()}
}

type skipmapStorage[V any] struct {
	inner *skipmap.StringMap[V]
}

func (s *skipmapStorage[V]) Get(key string) (V, error) {
	v, ok := s.inner.Load(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return v, nil
}

func (s *skipmapStorage[V]) Set(key string, value V) error {
	s.inner.Store(key, value)
	return nil
}

func (s *skipmapStorage[V]) Del(key string) error {
	s.inner.Delete(key)
	return nil
}

// Apply is not atomic against concurrent readers, but the backend is
// memory-only: there is no crash to tear the batch in half.
func (s *skipmapStorage[V]) Apply(b Batch[V]) error {
	for _, op := range b.ops {
		if op.del {
			s.inner.Delete(op.key)
		} else {
			s.inner.Store(op.key, op.value)
		}
	}
	return nil
}

func (s *skipmapStorage[V]) Range(prefix string) (Range[string, V], error) {
	rng := &sliceRange[V]{}
	s.inner.Range(func(k string, v V) bool {
		if strings.HasPrefix(k, prefix) {
			rng.keys = append(rng.keys, k)
			rng.values = append(rng.values, v)
		}
		return true
	})
	return rng, nil
}

func (s *skipmapStorage[V]) ToMap() (map[string]V, error) {
	out := make(map[string]V)
	s.inner.Range(func(k string, v V) bool {
		out[k] = v
		return true
	})
	return out, nil
}
