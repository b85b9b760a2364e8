package base

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-base/internal/hydrate"
)

// ErrOptionNotFound is returned when decoding an absent option.
var ErrOptionNotFound = errors.New("base: option not found")

// DecodeOption converts the option at path into a T. Trees decode into
// structs or maps, sequences into slices, scalars into scalars. When T
// implements Validate() error the decoded value is validated.
func DecodeOption[T any](b *Base, path string) (T, error) {
	return decodeOption[T](b, path)
}

// DecodeOptionStrict behaves like DecodeOption but rejects tree keys that do
// not map to a field of T.
func DecodeOptionStrict[T any](b *Base, path string) (T, error) {
	return decodeOption(b, path, hydrate.Strict[T]())
}

func decodeOption[T any](b *Base, path string, opts ...hydrate.Option[T]) (T, error) {
	var zero T
	if b == nil || b.destroyed {
		return zero, ErrDestroyed
	}
	value, ok := b.Option(path)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrOptionNotFound, path)
	}
	opts = append(opts, hydrate.WithCheck(func(_ hydrate.Context, target *T) error {
		if v, ok := any(target).(validator); ok {
			return v.Validate()
		}
		return nil
	}))
	return hydrate.New(opts...).Decode(hydrate.Context{Class: b.class.Name(), Path: path}, value)
}

type validator interface {
	Validate() error
}
