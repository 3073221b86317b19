package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/sparql/query"
	"github.com/aleksaelezovic/triq/pkg/store"
)

// evaluateBinaryExpression evaluates binary operations.
// Both operands are evaluated first so unbound variables always surface.
func (e *Evaluator) evaluateBinaryExpression(expr *query.BinaryExpression, binding *store.Binding) (rdf.Term, error) {
	left, leftErr := e.Evaluate(expr.Left, binding)
	if IsUnbound(leftErr) {
		return nil, leftErr
	}

	right, rightErr := e.Evaluate(expr.Right, binding)
	if IsUnbound(rightErr) {
		return nil, rightErr
	}

	switch expr.Operator {
	// Logical operators
	case query.OpAnd:
		return e.evaluateAnd(left, leftErr, right, rightErr)
	case query.OpOr:
		return e.evaluateOr(left, leftErr, right, rightErr)
	}

	if leftErr != nil {
		return nil, leftErr
	}
	if rightErr != nil {
		return nil, rightErr
	}

	switch expr.Operator {
	// Comparison operators
	case query.OpEqual:
		return e.evaluateEqual(left, right)
	case query.OpNotEqual:
		return e.evaluateNotEqual(left, right)
	default:
		return nil, fmt.Errorf("unsupported binary operator: %v", expr.Operator)
	}
}

// evaluateUnaryExpression evaluates unary operations
func (e *Evaluator) evaluateUnaryExpression(expr *query.UnaryExpression, binding *store.Binding) (rdf.Term, error) {
	operand, err := e.Evaluate(expr.Operand, binding)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case query.OpNot:
		return e.evaluateNot(operand)
	default:
		return nil, fmt.Errorf("unsupported unary operator: %v", expr.Operator)
	}
}

// Logical operators

func (e *Evaluator) evaluateAnd(left rdf.Term, leftErr error, right rdf.Term, rightErr error) (rdf.Term, error) {
	leftEBV, err := ebvOrError(left, leftErr)
	if err == nil && !leftEBV {
		return rdf.NewBooleanLiteral(false), nil
	}

	rightEBV, rerr := ebvOrError(right, rightErr)
	if rerr == nil && !rightEBV {
		// false && error is false
		return rdf.NewBooleanLiteral(false), nil
	}

	if err != nil {
		return nil, err
	}
	if rerr != nil {
		return nil, rerr
	}
	return rdf.NewBooleanLiteral(true), nil
}

func (e *Evaluator) evaluateOr(left rdf.Term, leftErr error, right rdf.Term, rightErr error) (rdf.Term, error) {
	leftEBV, err := ebvOrError(left, leftErr)
	if err == nil && leftEBV {
		return rdf.NewBooleanLiteral(true), nil
	}

	rightEBV, rerr := ebvOrError(right, rightErr)
	if rerr == nil && rightEBV {
		// error || true is true
		return rdf.NewBooleanLiteral(true), nil
	}

	if err != nil {
		return nil, err
	}
	if rerr != nil {
		return nil, rerr
	}
	return rdf.NewBooleanLiteral(false), nil
}

func (e *Evaluator) evaluateNot(operand rdf.Term) (rdf.Term, error) {
	ebv, err := EffectiveBooleanValue(operand)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(!ebv), nil
}

func ebvOrError(term rdf.Term, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return EffectiveBooleanValue(term)
}

// EffectiveBooleanValue computes the EBV of a term
func EffectiveBooleanValue(term rdf.Term) (bool, error) {
	if term == nil {
		return false, fmt.Errorf("cannot compute EBV of nil term")
	}

	switch t := term.(type) {
	case *rdf.Literal:
		if t.Language != "" {
			return t.Value != "", nil
		}

		// String literals: false if empty, true otherwise
		if t.IsPlain() {
			return t.Value != "", nil
		}

		switch t.Datatype.IRI {
		case rdf.XSDBoolean.IRI:
			return t.Value == "true" || t.Value == "1", nil

		// Numeric literals: false if zero, true otherwise
		case rdf.XSDInteger.IRI,
			"http://www.w3.org/2001/XMLSchema#int",
			"http://www.w3.org/2001/XMLSchema#long":
			val, err := strconv.ParseInt(t.Value, 10, 64)
			if err != nil {
				return false, fmt.Errorf("invalid integer literal: %w", err)
			}
			return val != 0, nil

		case rdf.XSDDouble.IRI, rdf.XSDDecimal.IRI,
			"http://www.w3.org/2001/XMLSchema#float":
			val, err := strconv.ParseFloat(t.Value, 64)
			if err != nil {
				return false, fmt.Errorf("invalid numeric literal: %w", err)
			}
			return val != 0 && !math.IsNaN(val), nil
		}

		// Other literals: error
		return false, fmt.Errorf("cannot compute EBV of literal with datatype %s", t.Datatype.IRI)

	default:
		// IRIs: error
		return false, fmt.Errorf("cannot compute EBV of non-literal term")
	}
}

// Comparison operators

func (e *Evaluator) evaluateEqual(left, right rdf.Term) (rdf.Term, error) {
	// Use RDF term equality
	result := left.Equals(right)
	return rdf.NewBooleanLiteral(result), nil
}

func (e *Evaluator) evaluateNotEqual(left, right rdf.Term) (rdf.Term, error) {
	result := !left.Equals(right)
	return rdf.NewBooleanLiteral(result), nil
}

// IsUnbound reports whether err is or wraps an unbound variable error
func IsUnbound(err error) bool {
	if err == nil {
		return false
	}
	var unbound *query.UnboundVariableError
	return errors.As(err, &unbound)
}
