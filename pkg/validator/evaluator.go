package validator

// ExpressionEvaluator evaluates expressions in the companion expression
// language against a validation context. The language itself lives outside
// this package; callers inject an implementation into the executor.
//
// Evaluate receives the expression text and the object being validated as
// context, and returns the computed value. An evaluation failure must be
// returned as an error; the executor converts it into a validation issue
// rather than letting it escape.
type ExpressionEvaluator interface {
	Evaluate(expression string, context map[string]any) (any, error)
}

// EvaluatorFunc adapts a plain function to the ExpressionEvaluator
// interface.
type EvaluatorFunc func(expression string, context map[string]any) (any, error)

// Evaluate calls the underlying function.
func (f EvaluatorFunc) Evaluate(expression string, context map[string]any) (any, error) {
	return f(expression, context)
}
