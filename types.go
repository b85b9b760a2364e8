package base

import (
	"context"
	"time"

	"github.com/goliatone/go-base/pkg/activity"
)

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flattened field descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI represents OpenAPI-compatible JSON Schema documents.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument encapsulates a generated schema output alongside its format
// identifier. Implementations must ensure Document is JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator transforms an options tree into a schema document. All
// implementations MUST be safe for concurrent use and handle nil inputs by
// returning an empty schema document.
type SchemaGenerator interface {
	Generate(value any) (SchemaDocument, error)
}

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// RuleContext is the input of a rule evaluation. Options is the tree whose
// top-level keys become variables; Event is nil outside method hooks.
type RuleContext struct {
	Options Tree
	Class   *Class
	Event   *Event
	Args    []any
	Result  any
	Vars    map[string]any
	Now     time.Time
}

// Evaluator executes rule expressions.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx RuleContext, expr string) (any, error)

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(ctx RuleContext, expr string) (any, error) {
	return f(ctx, expr)
}

// Option configures an instance at construction time.
type Option func(*config)

type config struct {
	id               string
	ctx              context.Context
	logger           Logger
	evaluator        Evaluator
	programCache     ProgramCache
	functions        *FunctionRegistry
	evaluatorLogger  EvaluatorLogger
	schemaGenerator  SchemaGenerator
	activityHooks    activity.Hooks
	activityConfig   activity.Config
	activityIdentity activity.Identity
	observer         DispatchObserver
	setupErrors      []error
}

func applyOptions(opts []Option) config {
	cfg := config{
		activityConfig: activity.Config{Enabled: true},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.ctx == nil {
		cfg.ctx = context.Background()
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return cfg
}

// WithID overrides the generated instance identifier.
func WithID(id string) Option {
	return func(cfg *config) {
		cfg.id = id
	}
}

// WithContext sets the context handed to activity hooks.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		cfg.ctx = ctx
	}
}

// WithEvaluator configures the evaluator used by Evaluate and Rule handlers.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithSchemaGenerator configures a custom schema generator implementation.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *config) {
		cfg.schemaGenerator = generator
	}
}

// WithDispatchObserver reports every Invoke outcome to observer.
func WithDispatchObserver(observer DispatchObserver) Option {
	return func(cfg *config) {
		cfg.observer = observer
	}
}

func (b *Base) evaluatorLogger() EvaluatorLogger {
	if b.cfg.evaluatorLogger != nil {
		return b.cfg.evaluatorLogger
	}
	return noopEvaluatorLogger{}
}

func (b *Base) logger() Logger {
	return b.cfg.logger
}

func (b *Base) schemaGenerator() SchemaGenerator {
	if b.cfg.schemaGenerator != nil {
		return b.cfg.schemaGenerator
	}
	return DefaultSchemaGenerator()
}
