// Package query defines pre-parsed ASK, CONSTRUCT and DESCRIBE queries.
package query

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/triq/pkg/rdf"
)

// Form represents the type of query
type Form int

const (
	FormAsk Form = iota + 1
	FormConstruct
	FormDescribe
)

func (f Form) String() string {
	switch f {
	case FormAsk:
		return "ask"
	case FormConstruct:
		return "construct"
	case FormDescribe:
		return "describe"
	default:
		return "unknown"
	}
}

// Query represents a query tagged by its form.
// Exactly one of Ask, Construct and Describe is set, matching Form.
type Query struct {
	Form      Form
	Ask       *AskQuery
	Construct *ConstructQuery
	Describe  *DescribeQuery
}

// AskQuery represents an ASK query
type AskQuery struct {
	Where *GraphPattern
}

// ConstructQuery represents a CONSTRUCT query
type ConstructQuery struct {
	Template []*TriplePattern
	Where    *GraphPattern
}

// DescribeQuery represents a DESCRIBE query.
// Variable resources are resolved from the solutions of Where.
type DescribeQuery struct {
	Resources []TermOrVariable
	Where     *GraphPattern // nil for DESCRIBE <iri>
}

// GraphPattern is a basic graph pattern guarded by filters
type GraphPattern struct {
	Patterns []*TriplePattern
	Filters  []*Filter
}

// TriplePattern represents a triple pattern
type TriplePattern struct {
	Subject   TermOrVariable
	Predicate TermOrVariable
	Object    TermOrVariable
}

func (tp *TriplePattern) String() string {
	return fmt.Sprintf("%s %s %s", tp.Subject, tp.Predicate, tp.Object)
}

// Variables returns the distinct variable names of the pattern in S, P, O order
func (tp *TriplePattern) Variables() []string {
	var names []string
	for _, pos := range []TermOrVariable{tp.Subject, tp.Predicate, tp.Object} {
		if !pos.IsVariable() {
			continue
		}
		dup := false
		for _, n := range names {
			if n == pos.Variable.Name {
				dup = true
				break
			}
		}
		if !dup {
			names = append(names, pos.Variable.Name)
		}
	}
	return names
}

// TermOrVariable represents either an RDF term or a variable
type TermOrVariable struct {
	Term     rdf.Term
	Variable *Variable
}

// IsVariable reports whether the position holds a variable
func (tv TermOrVariable) IsVariable() bool {
	return tv.Variable != nil
}

func (tv TermOrVariable) String() string {
	switch {
	case tv.Variable != nil:
		return tv.Variable.String()
	case tv.Term != nil:
		return tv.Term.String()
	default:
		return "<nil>"
	}
}

// Variable represents a query variable
type Variable struct {
	Name string
}

func (v *Variable) String() string {
	return "?" + v.Name
}

// Filter represents a FILTER clause
type Filter struct {
	Expression Expression
}

// Expression represents a filter expression
type Expression interface {
	expressionNode()
	String() string
}

// Operator represents an expression operator
type Operator int

const (
	OpEqual Operator = iota + 1
	OpNotEqual
	OpAnd
	OpOr
	OpNot
)

func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpNot:
		return "!"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// VariableExpression represents a variable reference
type VariableExpression struct {
	Variable *Variable
}

func (e *VariableExpression) expressionNode() {}

func (e *VariableExpression) String() string {
	if e.Variable == nil {
		return "?<nil>"
	}
	return e.Variable.String()
}

// LiteralExpression represents a constant term
type LiteralExpression struct {
	Literal rdf.Term
}

func (e *LiteralExpression) expressionNode() {}

func (e *LiteralExpression) String() string {
	if e.Literal == nil {
		return "<nil>"
	}
	return e.Literal.String()
}

// BinaryExpression represents a binary operation
type BinaryExpression struct {
	Left     Expression
	Operator Operator
	Right    Expression
}

func (e *BinaryExpression) expressionNode() {}

func (e *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", exprString(e.Left), e.Operator, exprString(e.Right))
}

// UnaryExpression represents a unary operation
type UnaryExpression struct {
	Operator Operator
	Operand  Expression
}

func (e *UnaryExpression) expressionNode() {}

func (e *UnaryExpression) String() string {
	return e.Operator.String() + exprString(e.Operand)
}

func exprString(e Expression) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

// Builders used to assemble queries as Go values.

// Var returns a variable position
func Var(name string) TermOrVariable {
	return TermOrVariable{Variable: &Variable{Name: name}}
}

// Fixed returns a fixed term position
func Fixed(term rdf.Term) TermOrVariable {
	return TermOrVariable{Term: term}
}

// NewTriplePattern creates a triple pattern
func NewTriplePattern(subject, predicate, object TermOrVariable) *TriplePattern {
	return &TriplePattern{Subject: subject, Predicate: predicate, Object: object}
}

// NewGraphPattern creates a basic graph pattern without filters
func NewGraphPattern(patterns ...*TriplePattern) *GraphPattern {
	return &GraphPattern{Patterns: patterns}
}

// WithFilter appends a filter to the graph pattern and returns it
func (gp *GraphPattern) WithFilter(expr Expression) *GraphPattern {
	gp.Filters = append(gp.Filters, &Filter{Expression: expr})
	return gp
}

// NewAsk creates an ASK query
func NewAsk(where *GraphPattern) *Query {
	return &Query{Form: FormAsk, Ask: &AskQuery{Where: where}}
}

// NewConstruct creates a CONSTRUCT query
func NewConstruct(template []*TriplePattern, where *GraphPattern) *Query {
	return &Query{Form: FormConstruct, Construct: &ConstructQuery{Template: template, Where: where}}
}

// NewDescribe creates a DESCRIBE query for fixed resources
func NewDescribe(resources ...rdf.Term) *Query {
	positions := make([]TermOrVariable, len(resources))
	for i, r := range resources {
		positions[i] = Fixed(r)
	}
	return &Query{Form: FormDescribe, Describe: &DescribeQuery{Resources: positions}}
}

// NewDescribeWhere creates a DESCRIBE query whose resources may be bound by where
func NewDescribeWhere(resources []TermOrVariable, where *GraphPattern) *Query {
	return &Query{Form: FormDescribe, Describe: &DescribeQuery{Resources: resources, Where: where}}
}

// VarExpr returns a variable reference expression
func VarExpr(name string) Expression {
	return &VariableExpression{Variable: &Variable{Name: name}}
}

// TermExpr returns a constant expression
func TermExpr(term rdf.Term) Expression {
	return &LiteralExpression{Literal: term}
}

func Equal(left, right Expression) Expression {
	return &BinaryExpression{Left: left, Operator: OpEqual, Right: right}
}

func NotEqual(left, right Expression) Expression {
	return &BinaryExpression{Left: left, Operator: OpNotEqual, Right: right}
}

func And(left, right Expression) Expression {
	return &BinaryExpression{Left: left, Operator: OpAnd, Right: right}
}

func Or(left, right Expression) Expression {
	return &BinaryExpression{Left: left, Operator: OpOr, Right: right}
}

func Not(operand Expression) Expression {
	return &UnaryExpression{Operator: OpNot, Operand: operand}
}

// String renders the query in SPARQL-like syntax for logs and listings
func (q *Query) String() string {
	var sb strings.Builder
	switch {
	case q.Form == FormAsk && q.Ask != nil:
		sb.WriteString("ASK ")
		writeGraphPattern(&sb, q.Ask.Where)
	case q.Form == FormConstruct && q.Construct != nil:
		sb.WriteString("CONSTRUCT { ")
		for _, tp := range q.Construct.Template {
			sb.WriteString(tp.String())
			sb.WriteString(" . ")
		}
		sb.WriteString("} WHERE ")
		writeGraphPattern(&sb, q.Construct.Where)
	case q.Form == FormDescribe && q.Describe != nil:
		sb.WriteString("DESCRIBE")
		for _, r := range q.Describe.Resources {
			sb.WriteString(" ")
			sb.WriteString(r.String())
		}
		if q.Describe.Where != nil {
			sb.WriteString(" WHERE ")
			writeGraphPattern(&sb, q.Describe.Where)
		}
	default:
		sb.WriteString(q.Form.String())
	}
	return sb.String()
}

func writeGraphPattern(sb *strings.Builder, gp *GraphPattern) {
	sb.WriteString("{ ")
	if gp != nil {
		for _, tp := range gp.Patterns {
			sb.WriteString(tp.String())
			sb.WriteString(" . ")
		}
		for _, f := range gp.Filters {
			sb.WriteString("FILTER")
			if f == nil {
				sb.WriteString("(<nil>)")
			} else {
				sb.WriteString(exprString(f.Expression))
			}
			sb.WriteString(" ")
		}
	}
	sb.WriteString("}")
}
