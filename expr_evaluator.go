package base

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

type exprEvaluator struct {
	cache     ProgramCache
	functions map[string]Function
}

// NewExprEvaluator constructs the default Evaluator, backed by
// github.com/expr-lang/expr. Unknown identifiers evaluate to nil, so rules
// may test option keys that are not set.
func NewExprEvaluator(opts ...EvaluatorOption) Evaluator {
	cfg := applyEvaluatorOptions(opts)
	return &exprEvaluator{cache: cfg.cache, functions: cfg.functions}
}

func (e *exprEvaluator) Engine() string { return "expr" }

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if err := checkExpression(expression); err != nil {
		return nil, err
	}
	env := newRuleEnv(ctx)
	program, err := e.program(env, expression)
	if err != nil {
		return nil, err
	}
	return exprlang.Run(program, env.vars)
}

func (e *exprEvaluator) program(env ruleEnv, expression string) (*exprvm.Program, error) {
	key := env.programKey(e.Engine(), expression)
	if program, ok := cachedProgram[*exprvm.Program](e.cache, key); ok {
		return program, nil
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range functionNames(e.functions) {
		options = append(options, exprlang.Function(name, e.functions[name]))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	storeProgram(e.cache, key, program)
	return program, nil
}
