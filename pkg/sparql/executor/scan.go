package executor

import (
	"fmt"

	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/sparql/query"
	"github.com/aleksaelezovic/triq/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Match binds a single triple pattern against the store. Every matching
// triple yields exactly one binding; a variable repeated inside the pattern
// must bind to equal terms in every position.
func Match(ts *store.TripleStore, pattern *query.TriplePattern) (store.BindingIterator, error) {
	m := &matcher{store: ts}
	return m.match(pattern, store.NewBinding())
}

// matcher evaluates patterns against a store
type matcher struct {
	store   *store.TripleStore
	scanned prometheus.Counter // optional
}

// match scans the pattern with the variables already bound in base substituted
func (m *matcher) match(pattern *query.TriplePattern, base *store.Binding) (store.BindingIterator, error) {
	storePattern := &store.Pattern{
		Subject:   substitute(pattern.Subject, base),
		Predicate: substitute(pattern.Predicate, base),
		Object:    substitute(pattern.Object, base),
	}

	tripleIter, err := m.store.Match(storePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to match %s: %w", pattern, err)
	}

	return &scanIterator{
		tripleIter: tripleIter,
		pattern:    pattern,
		base:       base,
		scanned:    m.scanned,
	}, nil
}

// substitute converts a pattern position to store format, replacing bound variables
func substitute(tov query.TermOrVariable, base *store.Binding) any {
	if !tov.IsVariable() {
		return tov.Term
	}
	if term, ok := base.Vars[tov.Variable.Name]; ok {
		return term
	}
	return store.NewVariable(tov.Variable.Name)
}

// scanIterator implements BindingIterator for scanning
type scanIterator struct {
	tripleIter store.TripleIterator
	pattern    *query.TriplePattern
	base       *store.Binding
	binding    *store.Binding
	scanned    prometheus.Counter
	err        error
}

func (it *scanIterator) Next() bool {
	if it.err != nil {
		return false
	}

	for it.tripleIter.Next() {
		triple, err := it.tripleIter.Triple()
		if err != nil {
			it.err = err
			return false
		}
		if it.scanned != nil {
			it.scanned.Inc()
		}

		// Bind variables, checking for repeated variables
		binding := it.base.Clone()
		if bindPosition(binding, it.pattern.Subject, triple.Subject) &&
			bindPosition(binding, it.pattern.Predicate, triple.Predicate) &&
			bindPosition(binding, it.pattern.Object, triple.Object) {
			it.binding = binding
			return true
		}
		// Otherwise, continue to next triple
	}
	return false
}

// bindPosition binds a variable position to value. It reports false when the
// variable is already bound to a different term.
func bindPosition(binding *store.Binding, tov query.TermOrVariable, value rdf.Term) bool {
	if !tov.IsVariable() {
		return true
	}

	varName := tov.Variable.Name
	if existing, exists := binding.Vars[varName]; exists {
		return existing.Equals(value)
	}
	binding.Vars[varName] = value
	return true
}

func (it *scanIterator) Binding() *store.Binding {
	return it.binding
}

func (it *scanIterator) Err() error {
	return it.err
}

func (it *scanIterator) Close() error {
	return it.tripleIter.Close()
}
