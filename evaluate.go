package base

import "time"

// Evaluate runs expr against the live options tree.
func (b *Base) Evaluate(expr string) (Response[any], error) {
	return b.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr with ctx. A nil ctx.Options binds the live tree and
// a nil ctx.Class binds the instance class.
func (b *Base) EvaluateWith(ctx RuleContext, expr string) (Response[any], error) {
	if err := checkExpression(expr); err != nil {
		return Response[any]{}, err
	}
	if b.destroyed {
		return Response[any]{}, ErrDestroyed
	}
	evaluator := b.ruleEvaluator()
	if ctx.Options == nil {
		ctx.Options = b.store.All()
	}
	if ctx.Class == nil {
		ctx.Class = b.class
	}
	if ctx.Now.IsZero() {
		ctx.Now = time.Now()
	}

	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expr)
	err = newEvaluationError(engine, expr, ctx, err)

	logEvent := EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Class:    classLabel(ctx.Class),
		Duration: time.Since(start),
		Err:      err,
	}
	if ctx.Event != nil {
		logEvent.Event = ctx.Event.Type
	}
	b.evaluatorLogger().LogEvaluation(logEvent)
	if err != nil {
		return Response[any]{}, err
	}
	return Response[any]{Value: value}, nil
}

// ruleEvaluator returns the configured evaluator, building the expr default
// from the instance cache and functions on first use.
func (b *Base) ruleEvaluator() Evaluator {
	if b.cfg.evaluator != nil {
		return b.cfg.evaluator
	}
	b.cfg.evaluator = NewExprEvaluator(
		UsingProgramCache(b.cfg.programCache),
		UsingFunctions(b.cfg.functions),
	)
	return b.cfg.evaluator
}

// ruleHandler adapts rule to a hook. The rule sees the call arguments as
// args, the dispatch as event and, in after hooks, the call result.
func (b *Base) ruleHandler(rule Rule) Handler {
	return func(e *Event, args ...any) any {
		ctx := RuleContext{Event: e, Args: args}
		if kind, _ := parseKey(e.Type); kind == hookAfter {
			ctx.Args = e.Args
			if len(args) > 0 {
				ctx.Result = args[0]
			}
		}
		response, err := b.EvaluateWith(ctx, string(rule))
		if err != nil {
			b.logger().Warn("rule evaluation failed", "class", b.class.Name(), "event", e.Type, "rule", string(rule), "error", err)
			return nil
		}
		return response.Value
	}
}

type engineNamer interface {
	Engine() string
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(engineNamer); ok {
		return named.Engine()
	}
	return "custom"
}
