package base

import (
	"errors"
	"strings"
)

var errEmptyExpression = errors.New("expression must not be empty")

// EvaluatorOption configures the expr, CEL and JS evaluators.
type EvaluatorOption func(*evaluatorConfig)

type evaluatorConfig struct {
	cache     ProgramCache
	functions map[string]Function
}

// UsingProgramCache stores compiled programs in cache.
func UsingProgramCache(cache ProgramCache) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.cache = cache
	}
}

// UsingFunctions exposes the functions registered in registry at
// construction time.
func UsingFunctions(registry *FunctionRegistry) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.functions = registry.snapshot()
	}
}

func applyEvaluatorOptions(opts []EvaluatorOption) evaluatorConfig {
	var cfg evaluatorConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func checkExpression(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return errEmptyExpression
	}
	return nil
}
