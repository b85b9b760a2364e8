// Package hydrate decodes option values into typed Go values.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-base/layering"
)

// Context names the option being decoded.
type Context struct {
	Class string
	Path  string
}

// Error reports a decode failure at an option path. For type mismatches
// Path points at the offending key below the decoded option.
type Error struct {
	Class string
	Path  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hydrate: %s option %q: %v", e.Class, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Check inspects a decoded value; a non-nil error fails the decode.
type Check[T any] func(Context, *T) error

// Option configures a Decoder.
type Option[T any] func(*Decoder[T])

// Strict rejects tree keys that do not map to a field of T.
func Strict[T any]() Option[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

// WithCheck runs check on every decoded value, in registration order.
func WithCheck[T any](check Check[T]) Option[T] {
	return func(d *Decoder[T]) {
		if check != nil {
			d.checks = append(d.checks, check)
		}
	}
}

// Decoder converts option values into T.
type Decoder[T any] struct {
	strict bool
	checks []Check[T]
}

// New constructs a Decoder.
func New[T any](opts ...Option[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts value into T. Values already of type T are deep copied
// instead of going through JSON, so trees keep their integer types.
func (d *Decoder[T]) Decode(ctx Context, value any) (T, error) {
	var result T
	if typed, ok := layering.Clone(value).(T); ok {
		result = typed
	} else if err := d.decodeJSON(value, &result); err != nil {
		var zero T
		return zero, d.wrap(ctx, err)
	}
	for _, check := range d.checks {
		if err := check(ctx, &result); err != nil {
			var zero T
			return zero, &Error{Class: ctx.Class, Path: ctx.Path, Err: err}
		}
	}
	return result, nil
}

func (d *Decoder[T]) decodeJSON(value any, target *T) error {
	buffer, err := json.Marshal(value)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	if d.strict {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(target)
}

func (d *Decoder[T]) wrap(ctx Context, err error) error {
	path := ctx.Path
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		path = joinPath(path, strings.ReplaceAll(typeErr.Field, ".", "/"))
	}
	return &Error{Class: ctx.Class, Path: path, Err: err}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "/" + key
}
