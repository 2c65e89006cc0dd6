// Package storage defines the byte storage the store runs on top of, with
// interchangeable in-memory and persistent backends. All backends support
// prefix scans, which the key layouts in package key are designed around.
package storage

import "errors"

var ErrNotFound = errors.New("key not found")

type Storage[V any] interface {
	// Get returns ErrNotFound when the key is absent.
	Get(key string) (V, error)
	Set(key string, value V) error
	Del(key string) error
	// Apply performs every write in the batch as one unit. On a
	// persistent backend the unit must survive a crash whole or not
	// at all; a half-applied batch must never become durable.
	Apply(b Batch[V]) error
	// Range iterates every key starting with prefix.
	Range(prefix string) (Range[string, V], error)
	ToMap() (map[string]V, error)
}

// Batch is an ordered group of writes applied atomically.
type Batch[V any] struct {
	ops []batchOp[V]
}

type batchOp[V any] struct {
	key   string
	value V
	del   bool
}

func (b *Batch[V]) Set(key string, value V) {
	b.ops = append(b.ops, batchOp[V]{key: key, value: value})
}

func (b *Batch[V]) Del(key string) {
	b.ops = append(b.ops, batchOp[V]{key: key, del: true})
}

func (b *Batch[V]) Len() int {
	return len(b.ops)
}

type Range[K comparable, V any] interface {
	Next() bool
	Value() (K, V)
}

// sliceRange serves the in-memory backends, which materialize matching
// pairs up front.
type sliceRange[V any] struct {
	keys   []string
	values []V
	curr   int
}

func (r *sliceRange[V]) Next() bool {
	return r.curr < len(r.keys)
}

func (r *sliceRange[V]) Value() (string, V) {
	k, v := r.keys[r.curr], r.values[r.curr]
	r.curr++
	return k, v
}
