package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/aleksaelezovic/triq/pkg/rdf"
)

// TripleStore holds a set of RDF triples over three permutation indexes
// (SPO, POS, OSP). Writes and reads must not interleave.
type TripleStore struct {
	storage Storage
	encoder TermEncoder
	decoder TermDecoder
}

// NewTripleStore creates a new triplestore
func NewTripleStore(storage Storage, encoder TermEncoder, decoder TermDecoder) *TripleStore {
	return &TripleStore{
		storage: storage,
		encoder: encoder,
		decoder: decoder,
	}
}

// Close closes the triplestore
func (s *TripleStore) Close() error {
	return s.storage.Close()
}

// Add inserts a triple. It reports false when an equal triple is already stored.
func (s *TripleStore) Add(triple *rdf.Triple) (bool, error) {
	txn, err := s.storage.Begin(true)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // #nosec G104 - no-op after commit

	added, err := s.addInTxn(txn, triple)
	if err != nil {
		return false, err
	}
	if !added {
		return false, nil
	}

	if err := txn.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return true, nil
}

// AddAll inserts triples in a single transaction and returns how many were new
func (s *TripleStore) AddAll(triples []*rdf.Triple) (int, error) {
	txn, err := s.storage.Begin(true)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // #nosec G104 - no-op after commit

	added := 0
	for i, triple := range triples {
		ok, err := s.addInTxn(txn, triple)
		if err != nil {
			return 0, fmt.Errorf("triple %d: %w", i, err)
		}
		if ok {
			added++
		}
	}

	if err := txn.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return added, nil
}

// addInTxn inserts a triple within an existing transaction
func (s *TripleStore) addInTxn(txn Transaction, triple *rdf.Triple) (bool, error) {
	if err := triple.Validate(); err != nil {
		return false, err
	}

	subjEnc, subjStr, err := s.encoder.EncodeTerm(triple.Subject)
	if err != nil {
		return false, fmt.Errorf("failed to encode subject: %w", err)
	}

	predEnc, predStr, err := s.encoder.EncodeTerm(triple.Predicate)
	if err != nil {
		return false, fmt.Errorf("failed to encode predicate: %w", err)
	}

	objEnc, objStr, err := s.encoder.EncodeTerm(triple.Object)
	if err != nil {
		return false, fmt.Errorf("failed to encode object: %w", err)
	}

	spoKey := s.encoder.EncodeKey(subjEnc, predEnc, objEnc)
	exists, err := has(txn, TableSPO, spoKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	// Store strings in id2str table
	if err := s.storeString(txn, subjEnc, subjStr); err != nil {
		return false, err
	}
	if err := s.storeString(txn, predEnc, predStr); err != nil {
		return false, err
	}
	if err := s.storeString(txn, objEnc, objStr); err != nil {
		return false, err
	}

	// Empty value for all index entries
	emptyValue := []byte{}

	if err := txn.Set(TableSPO, spoKey, emptyValue); err != nil {
		return false, err
	}
	if err := txn.Set(TablePOS, s.encoder.EncodeKey(predEnc, objEnc, subjEnc), emptyValue); err != nil {
		return false, err
	}
	if err := txn.Set(TableOSP, s.encoder.EncodeKey(objEnc, subjEnc, predEnc), emptyValue); err != nil {
		return false, err
	}

	return true, nil
}

// storeString stores a string in the id2str table if provided
func (s *TripleStore) storeString(txn Transaction, encoded EncodedTerm, str *string) error {
	if str == nil {
		return nil
	}

	// Skip the type byte, use the hash/data portion
	key := encoded[1:]
	value := []byte(*str)

	// Check if already exists to avoid unnecessary writes
	existing, err := txn.Get(TableID2Str, key)
	if err == nil && bytes.Equal(existing, value) {
		return nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	return txn.Set(TableID2Str, key, value)
}

// Contains reports whether an equal triple is stored
func (s *TripleStore) Contains(triple *rdf.Triple) (bool, error) {
	if err := triple.Validate(); err != nil {
		return false, err
	}

	txn, err := s.storage.Begin(false)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // #nosec G104 - read-only transaction

	subjEnc, _, err := s.encoder.EncodeTerm(triple.Subject)
	if err != nil {
		return false, fmt.Errorf("failed to encode subject: %w", err)
	}
	predEnc, _, err := s.encoder.EncodeTerm(triple.Predicate)
	if err != nil {
		return false, fmt.Errorf("failed to encode predicate: %w", err)
	}
	objEnc, _, err := s.encoder.EncodeTerm(triple.Object)
	if err != nil {
		return false, fmt.Errorf("failed to encode object: %w", err)
	}

	return has(txn, TableSPO, s.encoder.EncodeKey(subjEnc, predEnc, objEnc))
}

// Count returns the number of stored triples
func (s *TripleStore) Count() (int64, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // #nosec G104 - read-only transaction

	it, err := txn.Scan(TableSPO, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", TableSPO, err)
	}
	defer it.Close()

	var count int64
	for it.Next() {
		count++
	}
	return count, nil
}

func has(txn Transaction, table Table, key []byte) (bool, error) {
	_, err := txn.Get(table, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}
