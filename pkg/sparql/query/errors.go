package query

import "fmt"

// UnboundVariableError is returned when a filter or template refers to a
// variable that the current solution does not bind.
type UnboundVariableError struct {
	Variable string
	Context  string // "filter" or "template"
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable ?%s in %s", e.Variable, e.Context)
}

// MalformedPatternError is returned by Validate for queries that cannot be evaluated.
// Index is the pattern, filter or resource index within Clause, or -1 when
// the error concerns the query as a whole.
type MalformedPatternError struct {
	Clause   string
	Index    int
	Position string
	Reason   string
}

func (e *MalformedPatternError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed query: %s", e.Reason)
	}
	return fmt.Sprintf("malformed %s %d %s: %s", e.Clause, e.Index, e.Position, e.Reason)
}
