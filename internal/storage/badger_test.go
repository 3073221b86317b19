package storage

import (
	"bytes"
	"testing"

	"github.com/aleksaelezovic/triq/pkg/store"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *BadgerStorage {
	t.Helper()
	s, err := NewMemoryStorage(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetSet(t *testing.T) {
	s := newTestStorage(t)

	txn, err := s.Begin(true)
	require.NoError(t, err)
	require.NoError(t, txn.Set(store.TableID2Str, []byte("k1"), []byte("v1")))
	require.NoError(t, txn.Commit())

	txn, err = s.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback()

	value, err := txn.Get(store.TableID2Str, []byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	// Tables are namespaced
	_, err = txn.Get(store.TableSPO, []byte("k1"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetReadOnly(t *testing.T) {
	s := newTestStorage(t)

	txn, err := s.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback()

	err = txn.Set(store.TableSPO, []byte("k"), nil)
	assert.ErrorIs(t, err, store.ErrTransactionRO)
}

func TestRollbackDiscardsWrites(t *testing.T) {
	s := newTestStorage(t)

	txn, err := s.Begin(true)
	require.NoError(t, err)
	require.NoError(t, txn.Set(store.TableSPO, []byte("k"), []byte{}))
	require.NoError(t, txn.Rollback())

	txn, err = s.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback()

	_, err = txn.Get(store.TableSPO, []byte("k"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestScanPrefix(t *testing.T) {
	s := newTestStorage(t)

	txn, err := s.Begin(true)
	require.NoError(t, err)
	for _, k := range []string{"aa1", "aa2", "ab1", "b"} {
		require.NoError(t, txn.Set(store.TablePOS, []byte(k), []byte{}))
	}
	// Same key in another table must not leak into the scan
	require.NoError(t, txn.Set(store.TableOSP, []byte("aa3"), []byte{}))
	require.NoError(t, txn.Commit())

	scan := func(prefix []byte) []string {
		txn, err := s.Begin(false)
		require.NoError(t, err)
		defer txn.Rollback()

		it, err := txn.Scan(store.TablePOS, prefix)
		require.NoError(t, err)
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(bytes.Clone(it.Key())))
		}
		return keys
	}

	assert.Equal(t, []string{"aa1", "aa2"}, scan([]byte("aa")))
	assert.Equal(t, []string{"aa1", "aa2", "ab1"}, scan([]byte("a")))
	assert.Equal(t, []string{"aa1", "aa2", "ab1", "b"}, scan(nil))
	assert.Empty(t, scan([]byte("c")))
}

func TestIteratorKeyBeforeNext(t *testing.T) {
	s := newTestStorage(t)

	txn, err := s.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback()

	it, err := txn.Scan(store.TableSPO, nil)
	require.NoError(t, err)
	defer it.Close()

	assert.Nil(t, it.Key())
	assert.False(t, it.Next())
	assert.Nil(t, it.Key())
}

func TestBeginAfterClose(t *testing.T) {
	s, err := NewMemoryStorage(Options{IndexCacheMB: 4, BlockCacheMB: 4, Logger: log.NewNopLogger()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Begin(false)
	assert.Error(t, err)
}

func TestNewTripleStore(t *testing.T) {
	ts, err := NewTripleStore(Options{})
	require.NoError(t, err)
	defer ts.Close()

	count, err := ts.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
