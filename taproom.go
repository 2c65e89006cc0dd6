// Package taproom is a small embedded record store: typed tables over a
// pluggable byte storage, with a transactional write path.
package taproom

import (
	"fmt"
	"sync"

	"taproom/bvalue"
	"taproom/key"
	"taproom/storage"
	"taproom/tx"
	"taproom/txid"
)

type Store[R any] interface {
	Find(pk bvalue.Value) (R, bool, error)
	FindByIndex(field string, value bvalue.Value) (R, bool, error)
	All() ([]R, error)
}

type Tx interface {
	Commit(checks ...tx.Check) error
	Rollback()
}

var _ Tx = (*tx.Tx)(nil)

// Database bundles the shared storage, the txid issuer and the commit lock
// every transaction serializes on. One Database per backing store; scoped
// handles (transactions) are handed out per write.
type Database struct {
	storage storage.Storage[[]byte]
	txids   txid.Issuer
	commit  sync.Mutex
}

func NewDatabase(stg storage.Storage[[]byte], iss txid.Issuer) (*Database, error) {
	db := &Database{storage: stg, txids: iss}
	if err := db.sweepStaged(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) Storage() storage.Storage[[]byte] {
	return db.storage
}

func (db *Database) Begin() *tx.Tx {
	return tx.Begin(db.txids.Issue(), db.storage, &db.commit)
}

// sweepStaged drops staged keys a crashed process may have left behind.
// They were never visible to readers, but on a persistent backend they
// would otherwise accumulate forever.
func (db *Database) sweepStaged() error {
	rng, err := db.storage.Range(key.StagedScanPrefix)
	if err != nil {
		return fmt.Errorf("sweeping stale staged keys: %w", err)
	}

	var stale []string
	for rng.Next() {
		k, _ := rng.Value()
		stale = append(stale, k)
	}
	for _, k := range stale {
		if err := db.storage.Del(k); err != nil {
			return fmt.Errorf("sweeping stale staged key %q: %w", k, err)
		}
	}
	return nil
}
