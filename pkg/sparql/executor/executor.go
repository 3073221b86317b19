package executor

import (
	"errors"
	"fmt"
	"time"

	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/sparql/query"
	"github.com/aleksaelezovic/triq/pkg/store"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
)

// Executor executes queries using the Volcano iterator model
type Executor struct {
	store   *store.TripleStore
	logger  log.Logger
	reg     prometheus.Registerer
	metrics *metrics
	matcher *matcher
}

// Option configures an Executor
type Option func(*Executor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithRegisterer registers the executor metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Executor) {
		e.reg = reg
	}
}

// NewExecutor creates a new query executor
func NewExecutor(ts *store.TripleStore, opts ...Option) *Executor {
	e := &Executor{
		store:  ts,
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.metrics = newMetrics(e.reg)
	e.matcher = &matcher{store: ts, scanned: e.metrics.rowsScanned}
	return e
}

// QueryResult represents the result of a query
type QueryResult interface {
	resultType()
}

// AskResult represents the result of an ASK query
type AskResult struct {
	Result bool
}

func (r *AskResult) resultType() {}

// GraphResult represents the triple set produced by CONSTRUCT and DESCRIBE.
// Triples holds no duplicates.
type GraphResult struct {
	Triples []*rdf.Triple
}

func (r *GraphResult) resultType() {}

// Execute validates and executes a query
func (e *Executor) Execute(q *query.Query) (QueryResult, error) {
	start := time.Now()

	form := "unknown"
	if q != nil {
		form = q.Form.String()
	}

	if err := q.Validate(); err != nil {
		e.metrics.queries.WithLabelValues(form, statusMalformed).Inc()
		level.Warn(e.logger).Log("msg", "rejected malformed query", "form", form, "err", err)
		return nil, err
	}

	level.Debug(e.logger).Log("msg", "executing query", "form", form, "query", q.String())

	var (
		result QueryResult
		size   int
		err    error
	)
	switch q.Form {
	case query.FormAsk:
		var r *AskResult
		r, err = e.executeAsk(q.Ask)
		if r != nil {
			result = r
			if r.Result {
				size = 1
			}
		}
	case query.FormConstruct:
		var r *GraphResult
		r, err = e.executeConstruct(q.Construct)
		if r != nil {
			result, size = r, len(r.Triples)
		}
	case query.FormDescribe:
		var r *GraphResult
		r, err = e.executeDescribe(q.Describe)
		if r != nil {
			result, size = r, len(r.Triples)
		}
	default:
		// Unreachable after Validate
		err = fmt.Errorf("unsupported query form: %s", q.Form)
	}

	elapsed := time.Since(start)
	e.metrics.duration.WithLabelValues(form).Observe(elapsed.Seconds())

	if err != nil {
		e.metrics.queries.WithLabelValues(form, statusError).Inc()
		level.Error(e.logger).Log("msg", "query failed", "form", form, "duration", elapsed, "err", err)
		return nil, err
	}

	e.metrics.queries.WithLabelValues(form, statusOK).Inc()
	e.metrics.resultSize.WithLabelValues(form).Observe(float64(size))
	level.Debug(e.logger).Log("msg", "query executed", "form", form, "duration", elapsed, "results", size)

	return result, nil
}

// Ask executes an ASK query and returns its boolean answer
func (e *Executor) Ask(q *query.Query) (bool, error) {
	if q != nil && q.Form != query.FormAsk {
		return false, fmt.Errorf("expected ask query, got %s", q.Form)
	}
	result, err := e.Execute(q)
	if err != nil {
		return false, err
	}
	return result.(*AskResult).Result, nil
}

// Construct executes a CONSTRUCT query and returns the built triples
func (e *Executor) Construct(q *query.Query) ([]*rdf.Triple, error) {
	if q != nil && q.Form != query.FormConstruct {
		return nil, fmt.Errorf("expected construct query, got %s", q.Form)
	}
	return e.executeGraph(q)
}

// Describe executes a DESCRIBE query and returns the described triples
func (e *Executor) Describe(q *query.Query) ([]*rdf.Triple, error) {
	if q != nil && q.Form != query.FormDescribe {
		return nil, fmt.Errorf("expected describe query, got %s", q.Form)
	}
	return e.executeGraph(q)
}

func (e *Executor) executeGraph(q *query.Query) ([]*rdf.Triple, error) {
	result, err := e.Execute(q)
	if err != nil {
		return nil, err
	}
	return result.(*GraphResult).Triples, nil
}

// executeAsk executes an ASK query, pulling at most one row
func (e *Executor) executeAsk(ask *query.AskQuery) (*AskResult, error) {
	iter := e.matcher.joinGraphPattern(ask.Where)
	defer iter.Close()

	// Check if there's at least one result
	result := iter.Next()
	if !result {
		if err := iter.Err(); err != nil {
			return nil, err
		}
	}

	return &AskResult{Result: result}, nil
}

// executeConstruct executes a CONSTRUCT query
func (e *Executor) executeConstruct(construct *query.ConstructQuery) (*GraphResult, error) {
	iter := e.matcher.joinGraphPattern(construct.Where)
	defer iter.Close()

	// Collect triples by instantiating template for each binding
	triples := newTripleSet()

	for iter.Next() {
		binding := iter.Binding()

		// Instantiate each triple pattern in the template
		for i, pattern := range construct.Template {
			triple, err := instantiateTriplePattern(pattern, binding)
			if err != nil {
				return nil, fmt.Errorf("template pattern %d: %w", i, err)
			}
			triples.add(triple)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return &GraphResult{Triples: triples.triples}, nil
}

// executeDescribe executes a DESCRIBE query
func (e *Executor) executeDescribe(describe *query.DescribeQuery) (*GraphResult, error) {
	resources, err := e.describeResources(describe)
	if err != nil {
		return nil, err
	}

	triples := newTripleSet()
	for _, resource := range resources {
		// <resource> ?p ?o and ?s ?p <resource>
		patterns := []*store.Pattern{
			{Subject: resource, Predicate: store.NewVariable("p"), Object: store.NewVariable("o")},
			{Subject: store.NewVariable("s"), Predicate: store.NewVariable("p"), Object: resource},
		}
		for _, pattern := range patterns {
			if err := e.collectMatches(pattern, triples); err != nil {
				return nil, fmt.Errorf("failed to describe %s: %w", resource, err)
			}
		}
	}

	return &GraphResult{Triples: triples.triples}, nil
}

// describeResources resolves the DESCRIBE targets in order of first appearance
func (e *Executor) describeResources(describe *query.DescribeQuery) ([]rdf.Term, error) {
	var resources []rdf.Term
	seen := make(map[string]bool)
	addResource := func(term rdf.Term) {
		// Only IRIs are described
		if _, ok := term.(*rdf.NamedNode); !ok {
			return
		}
		if key := term.String(); !seen[key] {
			seen[key] = true
			resources = append(resources, term)
		}
	}

	var variables []string
	for _, r := range describe.Resources {
		if r.IsVariable() {
			variables = append(variables, r.Variable.Name)
		} else {
			addResource(r.Term)
		}
	}

	if len(variables) == 0 {
		return resources, nil
	}

	// Execute WHERE clause to find resources dynamically
	iter := e.matcher.joinGraphPattern(describe.Where)
	defer iter.Close()

	for iter.Next() {
		binding := iter.Binding()
		for _, name := range variables {
			if term, ok := binding.Vars[name]; ok {
				addResource(term)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return resources, nil
}

func (e *Executor) collectMatches(pattern *store.Pattern, triples *tripleSet) error {
	iter, err := e.store.Match(pattern)
	if err != nil {
		return err
	}

	for iter.Next() {
		triple, err := iter.Triple()
		if err != nil {
			if closeErr := iter.Close(); closeErr != nil {
				return fmt.Errorf("error closing iterator: %w (after triple error: %v)", closeErr, err)
			}
			return err
		}
		e.metrics.rowsScanned.Inc()
		triples.add(triple)
	}
	if err := iter.Close(); err != nil {
		return fmt.Errorf("error closing iterator: %w", err)
	}
	return nil
}

// instantiateTriplePattern creates a triple from a template pattern and binding
func instantiateTriplePattern(pattern *query.TriplePattern, binding *store.Binding) (*rdf.Triple, error) {
	subject, err := instantiateTerm(pattern.Subject, binding)
	if err != nil {
		return nil, err
	}

	predicate, err := instantiateTerm(pattern.Predicate, binding)
	if err != nil {
		return nil, err
	}

	object, err := instantiateTerm(pattern.Object, binding)
	if err != nil {
		return nil, err
	}

	triple := rdf.NewTriple(subject, predicate, object)
	if err := triple.Validate(); err != nil {
		return nil, fmt.Errorf("invalid constructed triple %s: %w", triple, err)
	}
	return triple, nil
}

// instantiateTerm resolves a template position using the binding
func instantiateTerm(termOrVar query.TermOrVariable, binding *store.Binding) (rdf.Term, error) {
	if !termOrVar.IsVariable() {
		return termOrVar.Term, nil
	}

	value, found := binding.Vars[termOrVar.Variable.Name]
	if !found {
		return nil, &query.UnboundVariableError{Variable: termOrVar.Variable.Name, Context: "template"}
	}
	return value, nil
}

// tripleSet keeps triples in insertion order without duplicates
type tripleSet struct {
	seen    map[string]struct{}
	triples []*rdf.Triple
}

func newTripleSet() *tripleSet {
	return &tripleSet{seen: make(map[string]struct{}), triples: []*rdf.Triple{}}
}

// add inserts the triple unless an equal one is present. The N-Triples
// form identifies a triple because equal terms print identically.
func (s *tripleSet) add(triple *rdf.Triple) {
	key := triple.String()
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.triples = append(s.triples, triple)
}

// IsUnboundVariable reports whether err was caused by an unbound variable
func IsUnboundVariable(err error) bool {
	var unbound *query.UnboundVariableError
	return errors.As(err, &unbound)
}

// IsMalformed reports whether err was caused by a malformed query
func IsMalformed(err error) bool {
	var malformed *query.MalformedPatternError
	return errors.As(err, &malformed)
}
