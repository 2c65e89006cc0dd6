/*
Package tx implements the staging transaction the write path runs inside.

A transaction stages every write into the shared storage under keys
prefixed with its own id:

	unc_{txid}_rec_{table}_pk_{id}
	unc_{txid}_idx_{table}_{field}_{val}

Readers only scan rec_/idx_ prefixes, so staged data is invisible.
Commit takes the database-wide commit lock, runs the caller's constraint
checks against committed state, and only then republishes every staged key
under its committed layout — record, index entries and staged-key cleanup
in one atomic storage batch, so a crash mid-commit cannot leave a record
durable without its indexes or the other way around. Holding the lock across check and publish is
what closes the check-then-act race: no other transaction can commit a
conflicting row between the uniqueness probe and the insert.

Rollback (and any failed check) deletes the staged keys and leaves
committed state untouched.
*/
package tx

import (
	"errors"
	"fmt"
	"sync"

	"taproom/key"
	"taproom/storage"
	"taproom/txid"
)

var ErrDone = errors.New("transaction already committed or rolled back")

// Check is a constraint verified under the commit lock, after staging and
// before publication. Returning an error aborts the commit and rolls back.
type Check func() error

type Tx struct {
	id      txid.ID
	storage storage.Storage[[]byte]
	commit  *sync.Mutex
	staged  []string
	done    bool
}

func Begin(id txid.ID, stg storage.Storage[[]byte], commitLock *sync.Mutex) *Tx {
	return &Tx{id: id, storage: stg, commit: commitLock}
}

func (tx *Tx) ID() txid.ID {
	return tx.id
}

// Stage buffers one write. Nothing becomes visible until Commit.
func (tx *Tx) Stage(k key.Key, value []byte) error {
	if tx.done {
		return ErrDone
	}
	staged := k.Staged(tx.id).String()
	if err := tx.storage.Set(staged, value); err != nil {
		return fmt.Errorf("staging %s: %w", k.String(), err)
	}
	tx.staged = append(tx.staged, staged)
	return nil
}

func (tx *Tx) Commit(checks ...Check) error {
	if tx.done {
		return ErrDone
	}

	tx.commit.Lock()
	defer tx.commit.Unlock()

	for _, check := range checks {
		if err := check(); err != nil {
			tx.discard()
			return err
		}
	}

	rng, err := tx.storage.Range(key.StagedPrefix(tx.id))
	if err != nil {
		tx.discard()
		return fmt.Errorf("scanning staged keys: %w", err)
	}

	// publication and staged-key cleanup go through one atomic batch:
	// a crash mid-commit must never leave an index entry durable
	// without its record (or vice versa)
	var batch storage.Batch[[]byte]
	for rng.Next() {
		staged, v := rng.Value()
		k, err := key.Parse(staged)
		if err != nil {
			tx.discard()
			return fmt.Errorf("staged key %q: %w", staged, err)
		}
		batch.Set(k.Committed().String(), v)
		batch.Del(staged)
	}

	if err := tx.storage.Apply(batch); err != nil {
		tx.discard()
		return fmt.Errorf("publishing transaction %s: %w", tx.id, err)
	}

	tx.staged = nil
	tx.done = true
	return nil
}

func (tx *Tx) Rollback() {
	if tx.done {
		return
	}
	tx.discard()
}

// discard drops all staged keys and finishes the transaction. Staged keys
// are invisible to readers, so deleting them one by one is safe.
func (tx *Tx) discard() {
	for _, staged := range tx.staged {
		_ = tx.storage.Del(staged)
	}
	tx.staged = nil
	tx.done = true
}
