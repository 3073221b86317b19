package executor

import (
	"github.com/aleksaelezovic/triq/pkg/sparql/evaluator"
	"github.com/aleksaelezovic/triq/pkg/sparql/query"
	"github.com/aleksaelezovic/triq/pkg/store"
)

// Join evaluates a basic graph pattern left to right with a nested-loop
// join, then applies the filters. An empty pattern list yields one empty
// binding. Row order is unspecified.
func Join(ts *store.TripleStore, patterns []*query.TriplePattern, filters []*query.Filter) store.BindingIterator {
	m := &matcher{store: ts}
	return m.join(patterns, filters)
}

func (m *matcher) join(patterns []*query.TriplePattern, filters []*query.Filter) store.BindingIterator {
	var iter store.BindingIterator = &singletonIterator{}
	for _, pattern := range patterns {
		iter = &nestedLoopJoinIterator{
			left:    iter,
			pattern: pattern,
			matcher: m,
		}
	}

	if len(filters) > 0 {
		iter = &filterIterator{
			input:     iter,
			filters:   filters,
			evaluator: evaluator.NewEvaluator(),
		}
	}
	return iter
}

// joinGraphPattern accepts nil as the empty pattern
func (m *matcher) joinGraphPattern(gp *query.GraphPattern) store.BindingIterator {
	if gp == nil {
		return m.join(nil, nil)
	}
	return m.join(gp.Patterns, gp.Filters)
}

// singletonIterator yields a single empty binding
type singletonIterator struct {
	done bool
}

func (it *singletonIterator) Next() bool {
	if it.done {
		return false
	}
	it.done = true
	return true
}

func (it *singletonIterator) Binding() *store.Binding {
	return store.NewBinding()
}

func (it *singletonIterator) Err() error {
	return nil
}

func (it *singletonIterator) Close() error {
	return nil
}

// nestedLoopJoinIterator implements a bind join: every left row is
// substituted into the pattern before the pattern is matched.
type nestedLoopJoinIterator struct {
	left         store.BindingIterator
	pattern      *query.TriplePattern
	matcher      *matcher
	currentRight store.BindingIterator
	result       *store.Binding
	err          error
}

func (it *nestedLoopJoinIterator) Next() bool {
	if it.err != nil {
		return false
	}

	for {
		// If we have a right iterator, try to get next from it
		if it.currentRight != nil {
			if it.currentRight.Next() {
				it.result = it.currentRight.Binding()
				return true
			}
			it.err = it.currentRight.Err()
			_ = it.currentRight.Close() // #nosec G104 - close error doesn't affect iteration logic
			it.currentRight = nil
			if it.err != nil {
				return false
			}
		}

		// Get next from left
		if !it.left.Next() {
			it.err = it.left.Err()
			return false
		}

		// Create new right iterator with the current left binding applied
		rightIter, err := it.matcher.match(it.pattern, it.left.Binding())
		if err != nil {
			it.err = err
			return false
		}
		it.currentRight = rightIter
	}
}

func (it *nestedLoopJoinIterator) Binding() *store.Binding {
	return it.result
}

func (it *nestedLoopJoinIterator) Err() error {
	return it.err
}

func (it *nestedLoopJoinIterator) Close() error {
	if it.currentRight != nil {
		_ = it.currentRight.Close() // #nosec G104 - right close error less critical than left close error
		it.currentRight = nil
	}
	return it.left.Close()
}

// filterIterator discards rows for which any filter is not true
type filterIterator struct {
	input     store.BindingIterator
	filters   []*query.Filter
	evaluator *evaluator.Evaluator
	err       error
}

func (it *filterIterator) Next() bool {
	if it.err != nil {
		return false
	}

	for it.input.Next() {
		binding := it.input.Binding()

		keep, err := it.accept(binding)
		if err != nil {
			it.err = err
			return false
		}
		if keep {
			return true
		}
	}
	it.err = it.input.Err()
	return false
}

func (it *filterIterator) accept(binding *store.Binding) (bool, error) {
	for _, filter := range it.filters {
		keep, err := it.evaluator.Test(filter.Expression, binding)
		if err != nil || !keep {
			return false, err
		}
	}
	return true, nil
}

func (it *filterIterator) Binding() *store.Binding {
	return it.input.Binding()
}

func (it *filterIterator) Err() error {
	return it.err
}

func (it *filterIterator) Close() error {
	return it.input.Close()
}
