package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// NewLevelDBStorage opens (or creates) the persistent backend at path.
// The caller owns Close.
func NewLevelDBStorage(path string) (*levelDBStorage, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening leveldb at %s: %w", path, err)
	}
	return &levelDBStorage{db}, nil
}

type levelDBStorage struct {
	db *leveldb.DB
}

var _ Storage[[]byte] = (*levelDBStorage)(nil)

func (s *levelDBStorage) Get(key string) ([]byte, error) {
	v, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb get %q: %w", key, err)
	}
	return v, nil
}

func (s *levelDBStorage) Set(key string, value []byte) error {
	if err := s.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("leveldb put %q: %w", key, err)
	}
	return nil
}

func (s *levelDBStorage) Del(key string) error {
	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("leveldb delete %q: %w", key, err)
	}
	return nil
}

// Apply writes the batch through a leveldb write batch, which lands in
// the log as one record: after a crash either every write in it is
// durable or none is.
func (s *levelDBStorage) Apply(b Batch[[]byte]) error {
	wb := new(leveldb.Batch)
	for _, op := range b.ops {
		if op.del {
			wb.Delete([]byte(op.key))
		} else {
			wb.Put([]byte(op.key), op.value)
		}
	}
	if err := s.db.Write(wb, nil); err != nil {
		return fmt.Errorf("leveldb batch write: %w", err)
	}
	return nil
}

func (s *levelDBStorage) Range(prefix string) (Range[string, []byte], error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	// the iterator reuses its buffers, hence the copies
	rng := &sliceRange[[]byte]{}
	for iter.Next() {
		rng.keys = append(rng.keys, string(iter.Key()))
		rng.values = append(rng.values, append([]byte(nil), iter.Value()...))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("leveldb scan %q: %w", prefix, err)
	}
	return rng, nil
}

func (s *levelDBStorage) ToMap() (map[string][]byte, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	out := make(map[string][]byte)
	for iter.Next() {
		out[string(iter.Key())] = append([]byte(nil), iter.Value()...)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("leveldb scan: %w", err)
	}
	return out, nil
}

func (s *levelDBStorage) Close() error {
	return s.db.Close()
}
