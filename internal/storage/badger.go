package storage

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/triq/internal/encoding"
	"github.com/aleksaelezovic/triq/pkg/store"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

const mb = 1 << 20

// Options tunes the in-memory Badger database
type Options struct {
	IndexCacheMB int64
	BlockCacheMB int64
	Logger       log.Logger
}

// BadgerStorage implements Storage using an in-memory BadgerDB
type BadgerStorage struct {
	db *badger.DB
}

// NewMemoryStorage opens a BadgerDB that keeps everything in memory
func NewMemoryStorage(opts Options) (*BadgerStorage, error) {
	bopts := badger.DefaultOptions("").WithInMemory(true)
	if opts.IndexCacheMB > 0 {
		bopts = bopts.WithIndexCacheSize(opts.IndexCacheMB * mb)
	}
	if opts.BlockCacheMB > 0 {
		bopts = bopts.WithBlockCacheSize(opts.BlockCacheMB * mb)
	}
	if opts.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: opts.Logger})
	} else {
		bopts = bopts.WithLogger(nil) // Disable default logger
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger db")
	}

	return &BadgerStorage{db: db}, nil
}

// NewTripleStore opens an in-memory triple store with the default term encoding
func NewTripleStore(opts Options) (*store.TripleStore, error) {
	s, err := NewMemoryStorage(opts)
	if err != nil {
		return nil, err
	}
	return store.NewTripleStore(s, encoding.NewTermEncoder(), encoding.NewTermDecoder()), nil
}

// Begin starts a new transaction
func (s *BadgerStorage) Begin(writable bool) (store.Transaction, error) {
	if s.db.IsClosed() {
		return nil, errors.New("storage is closed")
	}
	txn := s.db.NewTransaction(writable)
	return &BadgerTransaction{
		txn:      txn,
		writable: writable,
	}, nil
}

// Close closes the storage
func (s *BadgerStorage) Close() error {
	return errors.Wrap(s.db.Close(), "failed to close badger db")
}

// BadgerTransaction implements Transaction using BadgerDB
type BadgerTransaction struct {
	txn      *badger.Txn
	writable bool
}

// Get retrieves a value by key
func (t *BadgerTransaction) Get(table store.Table, key []byte) ([]byte, error) {
	item, err := t.txn.Get(store.PrefixKey(table, key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to get from %s", table)
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read value from %s", table)
	}
	return value, nil
}

// Set stores a key-value pair
func (t *BadgerTransaction) Set(table store.Table, key, value []byte) error {
	if !t.writable {
		return store.ErrTransactionRO
	}

	if err := t.txn.Set(store.PrefixKey(table, key), value); err != nil {
		return errors.Wrapf(err, "failed to set in %s", table)
	}
	return nil
}

// Scan iterates over the keys of table that start with prefix
func (t *BadgerTransaction) Scan(table store.Table, prefix []byte) (store.Iterator, error) {
	scanPrefix := store.PrefixKey(table, prefix)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false // Index entries carry no values
	opts.Prefix = scanPrefix

	return &BadgerIterator{
		it:         t.txn.NewIterator(opts),
		prefixLen:  len(store.TablePrefix(table)),
		scanPrefix: scanPrefix,
	}, nil
}

// Commit commits the transaction
func (t *BadgerTransaction) Commit() error {
	return errors.Wrap(t.txn.Commit(), "failed to commit badger transaction")
}

// Rollback rolls back the transaction
func (t *BadgerTransaction) Rollback() error {
	t.txn.Discard()
	return nil
}

// BadgerIterator implements Iterator using BadgerDB
type BadgerIterator struct {
	it         *badger.Iterator
	prefixLen  int    // Table prefix length stripped from keys
	scanPrefix []byte // Full prefix used for BadgerDB filtering
	started    bool
	hasValue   bool
}

// Next advances to the next item
func (i *BadgerIterator) Next() bool {
	if !i.started {
		i.it.Seek(i.scanPrefix)
		i.started = true
	} else {
		i.it.Next()
	}

	i.hasValue = i.it.ValidForPrefix(i.scanPrefix)
	return i.hasValue
}

// Key returns the current key (without the table prefix)
func (i *BadgerIterator) Key() []byte {
	if !i.hasValue {
		return nil
	}

	key := i.it.Item().Key()
	if len(key) > i.prefixLen {
		return key[i.prefixLen:]
	}
	return nil
}

// Close closes the iterator
func (i *BadgerIterator) Close() error {
	i.it.Close()
	return nil
}

// badgerLogger routes Badger's internal logging through a go-kit logger
type badgerLogger struct {
	logger log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	level.Error(l.logger).Log("component", "badger", "msg", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	level.Warn(l.logger).Log("component", "badger", "msg", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	level.Debug(l.logger).Log("component", "badger", "msg", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	level.Debug(l.logger).Log("component", "badger", "msg", strings.TrimSpace(fmt.Sprintf(format, args...)))
}
