package base

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// Function is a helper callable by name from rule expressions.
type Function func(args ...any) (any, error)

var functionNamePattern = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// FunctionRegistry holds the helpers exposed to rules. It is safe to share
// between classes and instances.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// Register adds fn under name. Names must be identifiers and must not
// collide with a rule variable such as "options" or "event".
func (r *FunctionRegistry) Register(name string, fn Function) error {
	switch {
	case fn == nil:
		return fmt.Errorf("base: function %q is nil", name)
	case !functionNamePattern.MatchString(name):
		return fmt.Errorf("base: function name %q is not an identifier", name)
	case ruleReserved[name]:
		return fmt.Errorf("base: function name %q is a rule variable", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("base: function %q already registered", name)
	}
	r.functions[name] = fn
	return nil
}

// Names returns the registered names sorted.
func (r *FunctionRegistry) Names() []string {
	return functionNames(r.snapshot())
}

func (r *FunctionRegistry) snapshot() map[string]Function {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Function, len(r.functions))
	for name, fn := range r.functions {
		out[name] = fn
	}
	return out
}

func functionNames(functions map[string]Function) []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry exposes a copy of registry to the instance's default
// evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *config) {
		cfg.functions = &FunctionRegistry{functions: registry.snapshot()}
	}
}

// WithCustomFunction registers fn under name for the instance. Registration
// failures are logged when the instance is constructed.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *config) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		if err := cfg.functions.Register(name, fn); err != nil {
			cfg.setupErrors = append(cfg.setupErrors, err)
		}
	}
}
