package layering

import "reflect"

// Overlayer is implemented by opaque leaf values that know how to merge onto
// an existing destination of the same kind. Overlay returns false when dst is
// not compatible, in which case the source replaces the destination.
type Overlayer interface {
	Overlay(dst any) (any, bool)
}

// Cloner is implemented by opaque leaf values that need a deep copy when they
// are merged into a tree.
type Cloner interface {
	CloneValue() any
}

// MergeLayers composes trees ordered from strongest to weakest, returning a
// new tree where stronger layers win on conflicting leaves. Inputs are never
// mutated.
func MergeLayers(layers ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i] == nil {
			continue
		}
		Merge(merged, layers[i])
	}
	return merged
}

// Merge deep merges src into dst and returns dst. A nil dst is allocated.
//
// Trees merge recursively, sequences overlay by index, everything else is
// replaced by a deep copy of the source value.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		dst[key] = MergeValue(dst[key], value)
	}
	return dst
}

// MergeValue returns the result of merging src onto dst. dst may be reused.
func MergeValue(dst, src any) any {
	src = canonical(src)
	switch typed := src.(type) {
	case map[string]any:
		tree, ok := dst.(map[string]any)
		if !ok || tree == nil {
			tree = make(map[string]any, len(typed))
		}
		return Merge(tree, typed)
	case []any:
		seq, _ := dst.([]any)
		return overlay(seq, typed)
	case Overlayer:
		if merged, ok := typed.Overlay(dst); ok {
			return merged
		}
	}
	return Clone(src)
}

// Override returns a deep copy of value, ignoring whatever it replaces.
func Override(value any) any {
	return Clone(value)
}

func overlay(dst, src []any) []any {
	out := dst
	if len(src) > len(out) {
		grown := make([]any, len(src))
		copy(grown, out)
		out = grown
	}
	for i, value := range src {
		out[i] = MergeValue(out[i], value)
	}
	return out
}

// Clone deep copies trees and sequences. Unnamed map types with string keys
// become map[string]any and unnamed slice or array types become []any; named
// types are opaque leaves unless they implement Cloner.
func Clone(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case map[string]any:
		if typed == nil {
			return map[string]any{}
		}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Clone(item)
		}
		return out
	case []any:
		if typed == nil {
			return []any{}
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Clone(item)
		}
		return out
	case []byte:
		return append([]byte(nil), typed...)
	case Cloner:
		return typed.CloneValue()
	}
	return cloneValue(reflect.ValueOf(value))
}

// CloneTree deep copies a tree, returning an empty tree for nil.
func CloneTree(tree map[string]any) map[string]any {
	return Clone(tree).(map[string]any)
}

func cloneValue(rv reflect.Value) any {
	if !isCollection(rv) {
		return rv.Interface()
	}
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Clone(iter.Value().Interface())
		}
		return out
	default:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Clone(rv.Index(i).Interface())
		}
		return out
	}
}

// canonical converts foreign collections (map[string]int, []string, ...) into
// the tree representation so merge rules apply to them.
func canonical(value any) any {
	switch value.(type) {
	case nil, map[string]any, []any:
		return value
	}
	rv := reflect.ValueOf(value)
	if isCollection(rv) {
		return cloneValue(rv)
	}
	return value
}

func isCollection(rv reflect.Value) bool {
	if !rv.IsValid() || rv.Type().Name() != "" {
		return false
	}
	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}
