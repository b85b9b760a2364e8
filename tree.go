package base

import (
	"strings"

	"github.com/goliatone/go-base/layering"
)

// Tree is the options tree representation. Values are sub-trees, []any
// sequences or scalars; a nil value is an explicit null.
type Tree = map[string]any

// PathSeparator delimits segments in option paths ("rules/remote/url").
const PathSeparator = "/"

// SplitPath breaks path into segments. Segments are read up to the first
// empty one, so "" and "/a" address the root and "a//b" addresses "a".
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	segments := strings.Split(path, PathSeparator)
	for i, segment := range segments {
		if segment == "" {
			return segments[:i]
		}
	}
	return segments
}

func lookup(tree Tree, segments []string) (any, bool) {
	if tree == nil {
		return nil, false
	}
	var current any = tree
	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// nest wraps value so that it sits at segments: nest([a b], v) = {a: {b: v}}.
func nest(segments []string, value any) any {
	for i := len(segments) - 1; i >= 0; i-- {
		value = Tree{segments[i]: value}
	}
	return value
}

// assign replaces the node at segments with a copy of value, materialising
// intermediate trees. segments must not be empty.
func assign(tree Tree, segments []string, value any) {
	node := tree
	for _, segment := range segments[:len(segments)-1] {
		next, ok := node[segment].(map[string]any)
		if !ok || next == nil {
			next = Tree{}
			node[segment] = next
		}
		node = next
	}
	node[segments[len(segments)-1]] = layering.Override(value)
}
