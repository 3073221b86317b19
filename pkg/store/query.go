package store

import (
	"fmt"

	"github.com/aleksaelezovic/triq/pkg/rdf"
)

// Pattern represents a triple pattern with optional variables
type Pattern struct {
	Subject   any // rdf.Term or *Variable
	Predicate any // rdf.Term or *Variable
	Object    any // rdf.Term or *Variable
}

// Variable represents a SPARQL variable
type Variable struct {
	Name string
}

// NewVariable creates a new variable
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

func (v *Variable) String() string {
	return "?" + v.Name
}

// Binding represents a variable binding
type Binding struct {
	Vars map[string]rdf.Term
}

// NewBinding creates a new empty binding
func NewBinding() *Binding {
	return &Binding{
		Vars: make(map[string]rdf.Term),
	}
}

// Clone creates a copy of the binding
func (b *Binding) Clone() *Binding {
	newBinding := NewBinding()
	for k, v := range b.Vars {
		newBinding.Vars[k] = v
	}
	return newBinding
}

// Get returns the term bound to name, if any
func (b *Binding) Get(name string) (rdf.Term, bool) {
	term, ok := b.Vars[name]
	return term, ok
}

// TripleIterator iterates over triples matching a pattern
type TripleIterator interface {
	Next() bool
	Triple() (*rdf.Triple, error)
	Close() error
}

// BindingIterator iterates over variable bindings.
// Err reports the error that stopped iteration, if any, once Next returns false.
type BindingIterator interface {
	Next() bool
	Binding() *Binding
	Err() error
	Close() error
}

// keyOrder maps a key position to a triple position (S=0, P=1, O=2)
type keyOrder [3]int

var (
	orderSPO = keyOrder{0, 1, 2}
	orderPOS = keyOrder{1, 2, 0}
	orderOSP = keyOrder{2, 0, 1}
)

// Match returns the stored triples whose fixed components equal the pattern's.
// Variables in the pattern match any term.
func (s *TripleStore) Match(pattern *Pattern) (TripleIterator, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Select the best index based on bound positions
	table, order := selectIndex(pattern)

	prefix, err := s.buildScanPrefix(pattern, order)
	if err != nil {
		_ = txn.Rollback() // #nosec G104 - rollback error less important than original error
		return nil, err
	}

	it, err := txn.Scan(table, prefix)
	if err != nil {
		_ = txn.Rollback() // #nosec G104 - rollback error less important than original error
		return nil, fmt.Errorf("failed to scan %s: %w", table, err)
	}

	return &tripleIterator{
		store: s,
		txn:   txn,
		it:    it,
		order: order,
	}, nil
}

// All returns every stored triple. Each call starts a fresh scan.
func (s *TripleStore) All() (TripleIterator, error) {
	return s.Match(&Pattern{
		Subject:   NewVariable("s"),
		Predicate: NewVariable("p"),
		Object:    NewVariable("o"),
	})
}

// selectIndex chooses the index whose key prefix covers every bound position
func selectIndex(pattern *Pattern) (Table, keyOrder) {
	sBound := !isVariable(pattern.Subject)
	pBound := !isVariable(pattern.Predicate)
	oBound := !isVariable(pattern.Object)

	switch {
	case sBound && pBound:
		return TableSPO, orderSPO
	case pBound && oBound:
		return TablePOS, orderPOS
	case oBound && sBound:
		return TableOSP, orderOSP
	case sBound:
		return TableSPO, orderSPO
	case pBound:
		return TablePOS, orderPOS
	case oBound:
		return TableOSP, orderOSP
	default:
		return TableSPO, orderSPO
	}
}

// buildScanPrefix builds a key prefix from the bound terms in key order
func (s *TripleStore) buildScanPrefix(pattern *Pattern, order keyOrder) ([]byte, error) {
	positions := [3]any{pattern.Subject, pattern.Predicate, pattern.Object}

	var prefix []byte
	for _, idx := range order {
		value := positions[idx]
		if isVariable(value) {
			// Stop at first variable
			break
		}

		term, ok := value.(rdf.Term)
		if !ok || term == nil {
			return nil, fmt.Errorf("pattern position %d is neither a term nor a variable: %T", idx, value)
		}

		encoded, _, err := s.encoder.EncodeTerm(term)
		if err != nil {
			return nil, fmt.Errorf("failed to encode pattern term: %w", err)
		}
		prefix = append(prefix, encoded[:]...)
	}

	return prefix, nil
}

// isVariable checks if a value is a variable
func isVariable(v any) bool {
	_, ok := v.(*Variable)
	return ok
}

// tripleIterator implements TripleIterator
type tripleIterator struct {
	store  *TripleStore
	txn    Transaction
	it     Iterator
	order  keyOrder
	closed bool
}

func (ti *tripleIterator) Next() bool {
	if ti.closed {
		return false
	}
	return ti.it.Next()
}

func (ti *tripleIterator) Triple() (*rdf.Triple, error) {
	if ti.closed {
		return nil, fmt.Errorf("iterator closed")
	}

	key := ti.it.Key()
	if key == nil {
		return nil, fmt.Errorf("no current key")
	}
	if len(key) != len(ti.order)*EncodedTermSize {
		return nil, fmt.Errorf("invalid key length: %d", len(key))
	}

	// Map key terms back to S, P, O positions
	var positions [3]EncodedTerm
	for i, idx := range ti.order {
		offset := i * EncodedTermSize
		copy(positions[idx][:], key[offset:offset+EncodedTermSize])
	}

	subject, err := ti.store.decodeTerm(ti.txn, positions[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode subject: %w", err)
	}

	predicate, err := ti.store.decodeTerm(ti.txn, positions[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode predicate: %w", err)
	}

	object, err := ti.store.decodeTerm(ti.txn, positions[2])
	if err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}

	return rdf.NewTriple(subject, predicate, object), nil
}

func (ti *tripleIterator) Close() error {
	if ti.closed {
		return nil
	}
	ti.closed = true
	_ = ti.it.Close() // #nosec G104 - iterator close error less critical than transaction rollback error
	return ti.txn.Rollback()
}

// decodeTerm decodes an encoded term back to an rdf.Term
func (s *TripleStore) decodeTerm(txn Transaction, encoded EncodedTerm) (rdf.Term, error) {
	var stringValue *string
	if encoded.NeedsStringLookup() {
		str, err := txn.Get(TableID2Str, encoded[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to look up term string: %w", err)
		}
		strVal := string(str)
		stringValue = &strVal
	}

	return s.decoder.DecodeTerm(encoded, stringValue)
}
