package base

import "time"

// EvaluatorLogEvent describes one rule evaluation.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Class    string
	Event    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records rule evaluations.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger attaches an evaluator logger to the instance.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *config) {
		cfg.evaluatorLogger = logger
	}
}
