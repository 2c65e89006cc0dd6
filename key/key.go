// Package key defines the string key layouts the store keeps its data under.
//
// Committed data:
//
//	rec_{table}_pk_{id}        = [encoded row]
//	idx_{table}_{field}_{val}  = [*rec key]   (index entry points at the pk key)
//	seq_{table}                = [last assigned id]
//
// Data staged by an open transaction carries the transaction id up front so
// one prefix scan finds everything the transaction touched:
//
//	unc_{txid}_rec_{table}_pk_{id}
//	unc_{txid}_idx_{table}_{field}_{val}
//
// Readers only ever scan "rec_"/"idx_" prefixes, so staged keys are invisible
// until commit republishes them without the unc prefix.
//
// Table and field names must not contain underscores; field values may
// (they sit at the end of the key, so parsing is unambiguous).
package key

import (
	"errors"
	"strings"

	"github.com/samber/mo"

	"taproom/bvalue"
	"taproom/txid"
)

const (
	TypeRecord = "rec"
	TypeIndex  = "idx"
	TypeSeq    = "seq"

	// field name reserved for the primary key
	PK = "pk"

	stagedPrefix = "unc"
)

type Key struct {
	// type of value stored (rec, idx or seq)
	Type string
	// table name
	Table string
	// name of indexed field (pk for record keys, empty for seq)
	Field string
	// value of the indexed field (e.g. the pk's value)
	Value bvalue.Value
	// id of the owning transaction while the key is staged
	Txid mo.Option[txid.ID]
}

func Record(table string, pk bvalue.Value) Key {
	return Key{Type: TypeRecord, Table: table, Field: PK, Value: pk}
}

func Index(table, field string, value bvalue.Value) Key {
	return Key{Type: TypeIndex, Table: table, Field: field, Value: value}
}

func Seq(table string) Key {
	return Key{Type: TypeSeq, Table: table}
}

// Staged returns the key under its uncommitted layout, owned by tx id.
func (k Key) Staged(id txid.ID) Key {
	k.Txid = mo.Some(id)
	return k
}

// Committed strips the staged state off the key.
func (k Key) Committed() Key {
	k.Txid = mo.None[txid.ID]()
	return k
}

func (k Key) String() string {
	base := k.Type + "_" + k.Table
	if k.Type != TypeSeq {
		base += "_" + k.Field + "_" + k.Value.String()
	}
	if id, staged := k.Txid.Get(); staged {
		return stagedPrefix + "_" + id.String() + "_" + base
	}
	return base
}

// RecordPrefix is the scan prefix covering every committed row of a table.
func RecordPrefix(table string) string {
	return TypeRecord + "_" + table + "_" + PK + "_"
}

// StagedPrefix is the scan prefix covering everything staged by one transaction.
func StagedPrefix(id txid.ID) string {
	return stagedPrefix + "_" + id.String() + "_"
}

// StagedScanPrefix covers staged keys of all transactions.
const StagedScanPrefix = stagedPrefix + "_"

var ErrBadKey = errors.New("malformed storage key")

func Parse(s string) (Key, error) {
	switch {
	case strings.HasPrefix(s, stagedPrefix+"_"):
		tokens := strings.SplitN(s, "_", 6)
		if len(tokens) != 6 {
			return Key{}, ErrBadKey
		}
		id, err := txid.Parse(tokens[1])
		if err != nil {
			return Key{}, ErrBadKey
		}
		k, err := Parse(strings.Join(tokens[2:], "_"))
		if err != nil {
			return Key{}, err
		}
		return k.Staged(id), nil

	case strings.HasPrefix(s, TypeSeq+"_"):
		tokens := strings.SplitN(s, "_", 2)
		if len(tokens) != 2 {
			return Key{}, ErrBadKey
		}
		return Seq(tokens[1]), nil

	case strings.HasPrefix(s, TypeRecord+"_"), strings.HasPrefix(s, TypeIndex+"_"):
		tokens := strings.SplitN(s, "_", 4)
		if len(tokens) != 4 {
			return Key{}, ErrBadKey
		}
		return Key{
			Type:  tokens[0],
			Table: tokens[1],
			Field: tokens[2],
			Value: bvalue.FromString(tokens[3]),
		}, nil
	}

	return Key{}, ErrBadKey
}
