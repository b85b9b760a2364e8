package base

import "fmt"

// EvaluationError reports a failed rule evaluation together with the engine,
// the class of the instance and, for hook rules, the dispatch event.
type EvaluationError struct {
	Engine string
	Expr   string
	Class  string
	Event  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("base: %s rule %q class=%s", e.Engine, e.Expr, e.Class)
	if e.Event != "" {
		msg += " event=" + e.Event
	}
	return msg + ": " + e.Err.Error()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newEvaluationError(engine, expr string, ctx RuleContext, err error) error {
	if err == nil {
		return nil
	}
	evalErr := &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Class:  classLabel(ctx.Class),
		Err:    err,
	}
	if ctx.Event != nil {
		evalErr.Event = ctx.Event.Type
	}
	return evalErr
}
