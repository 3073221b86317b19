package query

import (
	"github.com/aleksaelezovic/triq/pkg/rdf"
)

// Clause names reported in MalformedPatternError
const (
	ClauseQuery    = "query"
	ClauseWhere    = "pattern"
	ClauseTemplate = "template pattern"
	ClauseFilter   = "filter"
	ClauseDescribe = "describe resource"
)

// Validate checks that the query can be evaluated. It returns a
// *MalformedPatternError describing the first problem found.
func (q *Query) Validate() error {
	if q == nil {
		return malformedQuery("query is nil")
	}

	switch q.Form {
	case FormAsk:
		if q.Ask == nil {
			return malformedQuery("ask form without ask body")
		}
		return validateGraphPattern(q.Ask.Where)

	case FormConstruct:
		if q.Construct == nil {
			return malformedQuery("construct form without construct body")
		}
		for i, tp := range q.Construct.Template {
			if err := validateTriplePattern(ClauseTemplate, i, tp); err != nil {
				return err
			}
		}
		return validateGraphPattern(q.Construct.Where)

	case FormDescribe:
		if q.Describe == nil {
			return malformedQuery("describe form without describe body")
		}
		return validateDescribe(q.Describe)

	default:
		return malformedQuery("unknown query form " + q.Form.String())
	}
}

func malformedQuery(reason string) error {
	return &MalformedPatternError{Clause: ClauseQuery, Index: -1, Reason: reason}
}

// validateGraphPattern accepts nil as the empty pattern
func validateGraphPattern(gp *GraphPattern) error {
	if gp == nil {
		return nil
	}
	for i, tp := range gp.Patterns {
		if err := validateTriplePattern(ClauseWhere, i, tp); err != nil {
			return err
		}
	}
	for i, f := range gp.Filters {
		if f == nil || f.Expression == nil {
			return &MalformedPatternError{Clause: ClauseFilter, Index: i, Position: "expression", Reason: "missing expression"}
		}
		if reason := checkExpression(f.Expression); reason != "" {
			return &MalformedPatternError{Clause: ClauseFilter, Index: i, Position: "expression", Reason: reason}
		}
	}
	return nil
}

func validateTriplePattern(clause string, index int, tp *TriplePattern) error {
	if tp == nil {
		return &MalformedPatternError{Clause: clause, Index: index, Reason: "pattern is nil"}
	}

	checks := []struct {
		position string
		value    TermOrVariable
	}{
		{"subject", tp.Subject},
		{"predicate", tp.Predicate},
		{"object", tp.Object},
	}

	for _, c := range checks {
		if reason := checkPosition(c.position, c.value); reason != "" {
			return &MalformedPatternError{Clause: clause, Index: index, Position: c.position, Reason: reason}
		}
	}
	return nil
}

// checkPosition returns a non-empty reason when the position is malformed
func checkPosition(position string, tv TermOrVariable) string {
	switch {
	case tv.Variable != nil && tv.Term != nil:
		return "both a term and a variable"
	case tv.Variable != nil:
		if tv.Variable.Name == "" {
			return "empty variable name"
		}
		return ""
	case tv.Term == nil:
		return "neither a term nor a variable"
	}

	switch tv.Term.(type) {
	case *rdf.NamedNode:
		return ""
	case *rdf.Literal:
		if position == "object" {
			return ""
		}
		return "literal in " + position + " position"
	default:
		return "unsupported term type"
	}
}

func checkExpression(expr Expression) string {
	switch e := expr.(type) {
	case *VariableExpression:
		if e.Variable == nil || e.Variable.Name == "" {
			return "empty variable name"
		}
	case *LiteralExpression:
		if e.Literal == nil {
			return "constant without a term"
		}
	case *BinaryExpression:
		switch e.Operator {
		case OpEqual, OpNotEqual, OpAnd, OpOr:
		default:
			return "unsupported binary operator " + e.Operator.String()
		}
		if e.Left == nil || e.Right == nil {
			return "missing operand for " + e.Operator.String()
		}
		if reason := checkExpression(e.Left); reason != "" {
			return reason
		}
		return checkExpression(e.Right)
	case *UnaryExpression:
		if e.Operator != OpNot {
			return "unsupported unary operator " + e.Operator.String()
		}
		if e.Operand == nil {
			return "missing operand for " + e.Operator.String()
		}
		return checkExpression(e.Operand)
	case nil:
		return "missing expression"
	default:
		return "unsupported expression"
	}
	return ""
}

func validateDescribe(d *DescribeQuery) error {
	if len(d.Resources) == 0 {
		return malformedQuery("describe without resources")
	}

	for i, r := range d.Resources {
		if reason := checkPosition("subject", r); reason != "" {
			return &MalformedPatternError{Clause: ClauseDescribe, Index: i, Position: "resource", Reason: reason}
		}
		if !r.IsVariable() {
			continue
		}
		if d.Where == nil {
			return &MalformedPatternError{Clause: ClauseDescribe, Index: i, Position: "resource", Reason: "variable " + r.Variable.String() + " without a where clause"}
		}
		if !d.Where.binds(r.Variable.Name) {
			return &MalformedPatternError{Clause: ClauseDescribe, Index: i, Position: "resource", Reason: "variable " + r.Variable.String() + " not bound by the where clause"}
		}
	}
	return validateGraphPattern(d.Where)
}

// binds reports whether some triple pattern mentions the variable
func (gp *GraphPattern) binds(name string) bool {
	for _, tp := range gp.Patterns {
		if tp == nil {
			continue
		}
		for _, v := range tp.Variables() {
			if v == name {
				return true
			}
		}
	}
	return false
}
