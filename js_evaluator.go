//go:build js_eval

package base

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cache     ProgramCache
	functions map[string]Function
}

// NewJSEvaluator constructs an Evaluator backed by goja. Each evaluation
// runs in a fresh runtime; compiled programs are shared through the cache.
func NewJSEvaluator(opts ...EvaluatorOption) Evaluator {
	cfg := applyEvaluatorOptions(opts)
	return &jsEvaluator{cache: cfg.cache, functions: cfg.functions}
}

func (e *jsEvaluator) Engine() string { return "js" }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if err := checkExpression(expression); err != nil {
		return nil, err
	}
	env := newRuleEnv(ctx)
	program, err := e.program(env, expression)
	if err != nil {
		return nil, err
	}
	vm := goja.New()
	for _, name := range env.names {
		if err := vm.Set(name, env.vars[name]); err != nil {
			return nil, err
		}
	}
	for name, fn := range e.functions {
		if err := vm.Set(name, fn); err != nil {
			return nil, err
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func (e *jsEvaluator) program(env ruleEnv, expression string) (*goja.Program, error) {
	key := env.programKey(e.Engine(), expression)
	if program, ok := cachedProgram[*goja.Program](e.cache, key); ok {
		return program, nil
	}
	program, err := goja.Compile("rule", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	if err != nil {
		return nil, err
	}
	storeProgram(e.cache, key, program)
	return program, nil
}

func jsEvaluatorAvailable() bool {
	return true
}
