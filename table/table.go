// Package table provides a typed, named table over the byte storage:
// sequential id assignment, pk lookup, unique secondary indexes, and
// staging of inserts into a transaction.
package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"taproom"
	"taproom/bvalue"
	"taproom/codec"
	"taproom/internal"
	"taproom/key"
	"taproom/storage"
	"taproom/tx"
)

var _ taproom.Store[any] = (*Table[any])(nil)

// ConflictError reports which unique fields of a row collide with a
// committed row.
type ConflictError struct {
	Table  string
	Fields []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: unique constraint violated on %s", e.Table, strings.Join(e.Fields, ", "))
}

type Table[R any] struct {
	name    string
	storage storage.Storage[[]byte]
	codec   codec.Codec[R]
	// unique index field names, in the codec's tag namespace
	unique []string

	seqMu sync.Mutex
}

func New[R any](
	name string,
	stg storage.Storage[[]byte],
	codec codec.Codec[R],
	unique ...string,
) (*Table[R], error) {
	var probe R
	if _, err := codec.Encode(probe); err != nil {
		return nil, fmt.Errorf("row type of table %s is not serializable: %w", name, err)
	}
	return &Table[R]{name: name, storage: stg, codec: codec, unique: unique}, nil
}

func (t *Table[R]) Name() string {
	return t.name
}

func (t *Table[R]) Find(pk bvalue.Value) (R, bool, error) {
	return t.get(key.Record(t.name, pk).String())
}

func (t *Table[R]) FindByIndex(field string, value bvalue.Value) (R, bool, error) {
	ptr, err := t.storage.Get(key.Index(t.name, field, value).String())
	if errors.Is(err, storage.ErrNotFound) {
		var zero R
		return zero, false, nil
	}
	if err != nil {
		var zero R
		return zero, false, err
	}

	// the index entry points at the pk key
	return t.get(string(ptr))
}

// All returns every committed row, ordered by id.
func (t *Table[R]) All() ([]R, error) {
	rng, err := t.storage.Range(key.RecordPrefix(t.name))
	if err != nil {
		return nil, err
	}

	type pair struct {
		id  int64
		row R
	}
	var pairs []pair
	for rng.Next() {
		k, recb := rng.Value()
		parsed, err := key.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.name, err)
		}
		id, err := parsed.Value.ToInt64()
		if err != nil {
			return nil, fmt.Errorf("table %s: non-numeric pk in key %q", t.name, k)
		}
		row, err := t.codec.Decode(recb)
		if err != nil {
			return nil, fmt.Errorf("table %s: decoding row %d: %w", t.name, id, err)
		}
		pairs = append(pairs, pair{id, row})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	rows := make([]R, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, p.row)
	}
	return rows, nil
}

// NextID assigns the next sequential id and persists the high-water mark.
// Ids handed to transactions that later roll back are burned, same as a
// database sequence.
func (t *Table[R]) NextID() (int64, error) {
	t.seqMu.Lock()
	defer t.seqMu.Unlock()

	seqKey := key.Seq(t.name).String()
	var last int64
	b, err := t.storage.Get(seqKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return 0, err
	default:
		v := bvalue.Value(b)
		if last, err = v.ToInt64(); err != nil {
			return 0, fmt.Errorf("table %s: corrupt sequence value %q", t.name, b)
		}
	}

	next := last + 1
	if err := t.storage.Set(seqKey, bvalue.FromInt64(next)); err != nil {
		return 0, err
	}
	return next, nil
}

// Stage buffers the insert of row under pk into txn: the record key plus
// one index entry per unique field. Visible only after txn commits.
func (t *Table[R]) Stage(txn *tx.Tx, pk bvalue.Value, row R) error {
	recb, err := t.codec.Encode(row)
	if err != nil {
		return fmt.Errorf("table %s: encoding row: %w", t.name, err)
	}

	recKey := key.Record(t.name, pk)
	if err := txn.Stage(recKey, recb); err != nil {
		return err
	}

	for _, field := range t.unique {
		v, ok := internal.FieldString(row, t.codec.Tag(), field)
		if !ok {
			return fmt.Errorf("table %s: no indexable field tagged %q", t.name, field)
		}
		if err := txn.Stage(key.Index(t.name, field, bvalue.FromString(v)), []byte(recKey.String())); err != nil {
			return err
		}
	}
	return nil
}

// CheckUnique probes the committed indexes for collisions with row. Meant
// to run as a commit check, under the commit lock. All colliding fields
// are reported, not just the first.
func (t *Table[R]) CheckUnique(row R) tx.Check {
	return func() error {
		var collisions []string
		for _, field := range t.unique {
			v, ok := internal.FieldString(row, t.codec.Tag(), field)
			if !ok {
				return fmt.Errorf("table %s: no indexable field tagged %q", t.name, field)
			}
			_, err := t.storage.Get(key.Index(t.name, field, bvalue.FromString(v)).String())
			switch {
			case err == nil:
				collisions = append(collisions, field)
			case errors.Is(err, storage.ErrNotFound):
			default:
				return err
			}
		}
		if len(collisions) > 0 {
			return &ConflictError{Table: t.name, Fields: collisions}
		}
		return nil
	}
}

func (t *Table[R]) get(k string) (R, bool, error) {
	recb, err := t.storage.Get(k)
	if errors.Is(err, storage.ErrNotFound) {
		var zero R
		return zero, false, nil
	}
	if err != nil {
		var zero R
		return zero, false, err
	}

	row, err := t.codec.Decode(recb)
	if err != nil {
		var zero R
		return zero, false, fmt.Errorf("table %s: decoding %q: %w", t.name, k, err)
	}
	return row, true, nil
}
