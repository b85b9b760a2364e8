package base

import "github.com/goliatone/go-base/layering"

// OptionsStore owns a single instance's options tree and mediates every read
// and write to it. It is not safe for concurrent use.
type OptionsStore struct {
	tree Tree
}

// NewOptionsStore builds the live tree by merging, in increasing precedence,
// an empty tree, each chain tree (most base first) and raw. Inputs are deep
// copied and never mutated.
func NewOptionsStore(chain []Tree, raw Tree) *OptionsStore {
	layers := make([]map[string]any, 0, len(chain)+1)
	layers = append(layers, raw)
	for i := len(chain) - 1; i >= 0; i-- {
		layers = append(layers, chain[i])
	}
	return &OptionsStore{tree: layering.MergeLayers(layers...)}
}

// All returns the live tree. The reference is shared with the store; nil once
// the store has been released.
func (s *OptionsStore) All() Tree {
	if s == nil {
		return nil
	}
	return s.tree
}

// Get returns the value at path. The boolean is false when any segment is
// missing or crosses a non-tree value.
func (s *OptionsStore) Get(path string) (any, bool) {
	if s == nil || s.tree == nil {
		return nil, false
	}
	return lookup(s.tree, SplitPath(path))
}

// Set writes value at path, deep merging by default or replacing the node
// when override is true. The boolean is false when nothing was written: the
// store was released, or a non-tree value was addressed at the root.
func (s *OptionsStore) Set(path string, value any, override bool) (Change, bool) {
	change := Change{Path: path, Override: override}
	if s == nil || s.tree == nil {
		return change, false
	}
	segments := SplitPath(path)
	if len(segments) == 0 {
		tree, ok := layering.Clone(value).(map[string]any)
		if !ok {
			return change, false
		}
		change.Old, change.Existed = layering.CloneTree(s.tree), true
		s.Merge(tree, override)
		change.New = layering.CloneTree(s.tree)
		return change, true
	}

	if current, ok := lookup(s.tree, segments); ok {
		change.Old, change.Existed = layering.Clone(current), true
	}
	if override {
		assign(s.tree, segments, value)
	} else {
		layering.Merge(s.tree, nest(segments, value).(map[string]any))
	}
	if current, ok := lookup(s.tree, segments); ok {
		change.New = layering.Clone(current)
	}
	return change, true
}

// Merge folds tree into the root. With override each top-level key of tree
// replaces the existing node wholesale.
func (s *OptionsStore) Merge(tree Tree, override bool) {
	if s == nil || s.tree == nil {
		return
	}
	if !override {
		layering.Merge(s.tree, tree)
		return
	}
	for key, value := range tree {
		s.tree[key] = layering.Override(value)
	}
}

// Release drops the tree. Reads afterwards report absent and writes are
// ignored.
func (s *OptionsStore) Release() {
	if s == nil {
		return
	}
	s.tree = nil
}

// Released reports whether Release has been called.
func (s *OptionsStore) Released() bool {
	return s == nil || s.tree == nil
}
