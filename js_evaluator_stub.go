//go:build !js_eval

package base

// NewJSEvaluator returns nil without the js_eval build tag; instances then
// fall back to the expr evaluator.
func NewJSEvaluator(...EvaluatorOption) Evaluator {
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
