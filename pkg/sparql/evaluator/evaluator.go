package evaluator

import (
	"fmt"

	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/sparql/query"
	"github.com/aleksaelezovic/triq/pkg/store"
)

// Evaluator evaluates filter expressions against bindings
type Evaluator struct{}

// NewEvaluator creates a new expression evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate evaluates an expression against a binding and returns the result term.
// A reference to a variable the binding lacks yields *query.UnboundVariableError.
func (e *Evaluator) Evaluate(expr query.Expression, binding *store.Binding) (rdf.Term, error) {
	if expr == nil {
		return nil, fmt.Errorf("cannot evaluate nil expression")
	}

	switch ex := expr.(type) {
	case *query.BinaryExpression:
		return e.evaluateBinaryExpression(ex, binding)
	case *query.UnaryExpression:
		return e.evaluateUnaryExpression(ex, binding)
	case *query.VariableExpression:
		return e.evaluateVariableExpression(ex, binding)
	case *query.LiteralExpression:
		return e.evaluateLiteralExpression(ex)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", expr)
	}
}

// Test evaluates a filter expression and reports whether the row is kept.
// Type errors reject the row; unbound variables are returned as errors.
func (e *Evaluator) Test(expr query.Expression, binding *store.Binding) (bool, error) {
	result, err := e.Evaluate(expr, binding)
	if err != nil {
		if IsUnbound(err) {
			return false, err
		}
		return false, nil
	}

	ebv, err := EffectiveBooleanValue(result)
	if err != nil {
		return false, nil
	}
	return ebv, nil
}

// evaluateVariableExpression evaluates a variable reference
func (e *Evaluator) evaluateVariableExpression(expr *query.VariableExpression, binding *store.Binding) (rdf.Term, error) {
	if expr.Variable == nil {
		return nil, fmt.Errorf("variable expression has nil variable")
	}

	value, exists := binding.Vars[expr.Variable.Name]
	if !exists {
		return nil, &query.UnboundVariableError{Variable: expr.Variable.Name, Context: "filter"}
	}

	return value, nil
}

// evaluateLiteralExpression evaluates a constant
func (e *Evaluator) evaluateLiteralExpression(expr *query.LiteralExpression) (rdf.Term, error) {
	if expr.Literal == nil {
		return nil, fmt.Errorf("literal expression has nil literal")
	}
	return expr.Literal, nil
}
