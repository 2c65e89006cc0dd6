package tx

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taproom/bvalue"
	"taproom/key"
	"taproom/storage"
	"taproom/txid"
)

func arrange() (storage.Storage[[]byte], *sync.Mutex, *txid.AtomicIssuer) {
	return storage.NewSkipmapStorage[[]byte](), &sync.Mutex{}, txid.NewAtomicIssuer()
}

func TestBeginCarriesIssuedID(t *testing.T) {
	stg, lock, iss := arrange()
	id := iss.Issue()
	assert.Equal(t, id, Begin(id, stg, lock).ID())
}

func TestCommitPublishesStagedKeys(t *testing.T) {
	// arrange
	stg, lock, iss := arrange()
	txn := Begin(iss.Issue(), stg, lock)
	rec := key.Record("drinks", bvalue.FromInt(1))

	// act
	require.NoError(t, txn.Stage(rec, []byte("coffee")))
	_, beforeCommit := stg.Get(rec.String())
	require.NoError(t, txn.Commit())
	got, err := stg.Get(rec.String())

	// assert
	assert.ErrorIs(t, beforeCommit, storage.ErrNotFound)
	assert.NoError(t, err)
	assert.Equal(t, []byte("coffee"), got)
}

func TestRollbackLeavesStorageUntouched(t *testing.T) {
	// arrange
	stg, lock, iss := arrange()
	txn := Begin(iss.Issue(), stg, lock)

	// act
	require.NoError(t, txn.Stage(key.Record("drinks", bvalue.FromInt(1)), []byte("coffee")))
	txn.Rollback()
	m, err := stg.ToMap()

	// assert
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestFailedCheckRollsBack(t *testing.T) {
	// arrange
	stg, lock, iss := arrange()
	txn := Begin(iss.Issue(), stg, lock)
	boom := errors.New("constraint violated")

	// act
	require.NoError(t, txn.Stage(key.Record("users", bvalue.FromInt(1)), []byte("alice")))
	err := txn.Commit(func() error { return boom })
	m, mapErr := stg.ToMap()

	// assert
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mapErr)
	assert.Empty(t, m)
}

func TestTxIsDoneAfterCommit(t *testing.T) {
	// arrange
	stg, lock, iss := arrange()
	txn := Begin(iss.Issue(), stg, lock)

	// act
	require.NoError(t, txn.Commit())
	stageErr := txn.Stage(key.Record("users", bvalue.FromInt(1)), nil)
	commitErr := txn.Commit()

	// assert
	assert.ErrorIs(t, stageErr, ErrDone)
	assert.ErrorIs(t, commitErr, ErrDone)
}

// countingStorage records how writes reach the backend, to pin down that
// publication happens through a single atomic batch rather than a
// sequence of individual sets a crash could tear in half.
type countingStorage struct {
	storage.Storage[[]byte]
	sets    int
	applies int
}

func (c *countingStorage) Set(k string, v []byte) error {
	c.sets++
	return c.Storage.Set(k, v)
}

func (c *countingStorage) Apply(b storage.Batch[[]byte]) error {
	c.applies++
	return c.Storage.Apply(b)
}

func TestCommitPublishesInOneBatch(t *testing.T) {
	// arrange
	stg := &countingStorage{Storage: storage.NewSkipmapStorage[[]byte]()}
	lock := &sync.Mutex{}
	iss := txid.NewAtomicIssuer()
	txn := Begin(iss.Issue(), stg, lock)

	rec := key.Record("users", bvalue.FromInt(1))
	idx := key.Index("users", "name", bvalue.FromString("alice"))
	require.NoError(t, txn.Stage(rec, []byte("alice")))
	require.NoError(t, txn.Stage(idx, []byte(rec.String())))
	setsWhileStaging := stg.sets

	// act
	require.NoError(t, txn.Commit())

	// assert
	assert.Equal(t, setsWhileStaging, stg.sets, "commit must not publish via individual sets")
	assert.Equal(t, 1, stg.applies)

	// record and index landed together, staged keys are gone
	m, err := stg.ToMap()
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Contains(t, m, rec.String())
	assert.Contains(t, m, idx.String())
}

func TestConcurrentTxsDoNotSeeEachOthersStaging(t *testing.T) {
	// arrange
	stg, lock, iss := arrange()
	a := Begin(iss.Issue(), stg, lock)
	b := Begin(iss.Issue(), stg, lock)
	rec := key.Record("drinks", bvalue.FromInt(1))

	// act
	require.NoError(t, a.Stage(rec, []byte("coffee")))
	require.NoError(t, b.Stage(rec, []byte("tea")))
	require.NoError(t, a.Commit())
	b.Rollback()
	got, err := stg.Get(rec.String())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []byte("coffee"), got)
}
