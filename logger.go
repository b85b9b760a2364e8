package base

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger records structured messages. Fields are alternating key/value
// pairs.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// WithLogger attaches logger to the instance. A nil logger disables logging.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger adapts a logrus logger. A nil logger uses the logrus
// standard logger.
func NewLogrusLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logrusLogger{entry: logrus.NewEntry(logger)}
}

func (l logrusLogger) Debug(msg string, fields ...any) { l.with(fields).Debug(msg) }
func (l logrusLogger) Info(msg string, fields ...any)  { l.with(fields).Info(msg) }
func (l logrusLogger) Warn(msg string, fields ...any)  { l.with(fields).Warn(msg) }
func (l logrusLogger) Error(msg string, fields ...any) { l.with(fields).Error(msg) }

func (l logrusLogger) with(fields []any) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(toLogrusFields(fields))
}

func toLogrusFields(fields []any) logrus.Fields {
	out := make(logrus.Fields, (len(fields)+1)/2)
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if i+1 >= len(fields) {
			out[key] = nil
			break
		}
		out[key] = fields[i+1]
	}
	return out
}
