package base

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

type celEvaluator struct {
	cache     ProgramCache
	functions map[string]Function
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Every rule
// variable is declared dyn, so the compiled program depends on the option
// keys in scope and is cached per key set.
func NewCELEvaluator(opts ...EvaluatorOption) Evaluator {
	cfg := applyEvaluatorOptions(opts)
	return &celEvaluator{cache: cfg.cache, functions: cfg.functions}
}

func (e *celEvaluator) Engine() string { return "cel" }

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if err := checkExpression(expression); err != nil {
		return nil, err
	}
	env := newRuleEnv(ctx)
	program, err := e.program(env, expression)
	if err != nil {
		return nil, err
	}
	out, _, err := program.Eval(env.vars)
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func (e *celEvaluator) program(env ruleEnv, expression string) (celgo.Program, error) {
	key := env.programKey(e.Engine(), expression)
	if program, ok := cachedProgram[celgo.Program](e.cache, key); ok {
		return program, nil
	}
	opts := make([]celgo.EnvOption, 0, len(env.names)+len(e.functions))
	for _, name := range env.names {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	for _, name := range functionNames(e.functions) {
		opts = append(opts, celFunction(name, e.functions[name]))
	}
	celEnv, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	ast, issues := celEnv.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := celEnv.Program(ast)
	if err != nil {
		return nil, err
	}
	storeProgram(e.cache, key, program)
	return program, nil
}

// celFunction declares fn with one, two and three dyn parameters. CEL has
// no variadic overloads.
func celFunction(name string, fn Function) celgo.EnvOption {
	call := func(values ...ref.Val) ref.Val {
		args := make([]any, len(values))
		for i, value := range values {
			args[i] = value.Value()
		}
		result, err := fn(args...)
		if err != nil {
			return types.WrapErr(err)
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
	dyn := celgo.DynType
	return celgo.Function(name,
		celgo.Overload(fmt.Sprintf("%s_dyn", name), []*celgo.Type{dyn}, dyn,
			celgo.UnaryBinding(func(arg ref.Val) ref.Val { return call(arg) })),
		celgo.Overload(fmt.Sprintf("%s_dyn_dyn", name), []*celgo.Type{dyn, dyn}, dyn,
			celgo.BinaryBinding(func(lhs, rhs ref.Val) ref.Val { return call(lhs, rhs) })),
		celgo.Overload(fmt.Sprintf("%s_dyn_dyn_dyn", name), []*celgo.Type{dyn, dyn, dyn}, dyn,
			celgo.FunctionBinding(call)),
	)
}
