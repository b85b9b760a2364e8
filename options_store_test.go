package base

import (
	"reflect"
	"testing"
)

func TestSplitPath(t *testing.T) {
	cases := []struct {
		path string
		want []string
	}{
		{path: "", want: nil},
		{path: "a", want: []string{"a"}},
		{path: "a/b/c", want: []string{"a", "b", "c"}},
		{path: "/a", want: []string{}},
		{path: "a//b", want: []string{"a"}},
		{path: "a/b/", want: []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got := SplitPath(tc.path)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestOptionsStoreChainPrecedence(t *testing.T) {
	chain := []Tree{
		{"a": 1, "nested": Tree{"x": "base", "y": "base"}},
		{"b": 2, "nested": Tree{"y": "mid"}},
	}
	store := NewOptionsStore(chain, Tree{"a": 10, "nested": Tree{"z": "raw"}})

	want := Tree{
		"a":      10,
		"b":      2,
		"nested": Tree{"x": "base", "y": "mid", "z": "raw"},
	}
	if !reflect.DeepEqual(store.All(), want) {
		t.Fatalf("expected %v, got %v", want, store.All())
	}

	store.Set("nested/x", "changed", false)
	if chain[0]["nested"].(Tree)["x"] != "base" {
		t.Fatalf("chain template mutated through the store")
	}
}

func TestOptionsStorePathRoundTrip(t *testing.T) {
	store := NewOptionsStore(nil, nil)
	store.Set("a/b/c", "deep", false)

	if got, ok := store.Get("a/b/c"); !ok || got != "deep" {
		t.Fatalf("expected deep, got %v ok=%v", got, ok)
	}
	prefix, ok := store.Get("a/b")
	if !ok || !reflect.DeepEqual(prefix, Tree{"c": "deep"}) {
		t.Fatalf("expected prefix tree, got %v ok=%v", prefix, ok)
	}
	if _, ok := store.Get("a/b/c/d"); ok {
		t.Fatalf("expected path crossing a scalar to be absent")
	}
	if _, ok := store.Get("a/missing"); ok {
		t.Fatalf("expected missing path to be absent")
	}
}

func TestOptionsStoreSequenceOverlay(t *testing.T) {
	store := NewOptionsStore(nil, Tree{"list": []any{1, 2}})

	change, written := store.Set("list", []any{3}, false)
	if !written || !change.Existed || !reflect.DeepEqual(change.Old, []any{1, 2}) {
		t.Fatalf("expected previous [1 2], got %+v written=%v", change, written)
	}
	if !reflect.DeepEqual(change.New, []any{3, 2}) {
		t.Fatalf("expected change to carry the merged value, got %v", change.New)
	}
	if got, _ := store.Get("list"); !reflect.DeepEqual(got, []any{3, 2}) {
		t.Fatalf("expected index overlay [3 2], got %v", got)
	}

	store.Set("list", 5, false)
	if got, _ := store.Get("list"); got != 5 {
		t.Fatalf("expected scalar to replace sequence, got %v", got)
	}
}

func TestOptionsStoreNullIsNotAbsent(t *testing.T) {
	store := NewOptionsStore(nil, Tree{"a": 1})
	store.Set("a", nil, false)

	value, ok := store.Get("a")
	if !ok || value != nil {
		t.Fatalf("expected explicit null, got %v ok=%v", value, ok)
	}
	if _, ok := store.Get("hasOwnProperty"); ok {
		t.Fatalf("expected intrinsic names to be absent")
	}
}

func TestOptionsStoreOverride(t *testing.T) {
	store := NewOptionsStore(nil, Tree{"a": Tree{"x": 1, "y": 2}})

	store.Set("a", Tree{"z": 3}, true)
	if got, _ := store.Get("a"); !reflect.DeepEqual(got, Tree{"z": 3}) {
		t.Fatalf("expected override to replace node, got %v", got)
	}

	store.Set("b/c", "new", true)
	if got, ok := store.Get("b/c"); !ok || got != "new" {
		t.Fatalf("expected intermediate trees to be created, got %v ok=%v", got, ok)
	}
}

func TestOptionsStoreMergeRoot(t *testing.T) {
	store := NewOptionsStore(nil, Tree{"a": Tree{"x": 1}, "b": Tree{"y": 1}})

	store.Merge(Tree{"a": Tree{"z": 2}}, false)
	if got, _ := store.Get("a"); !reflect.DeepEqual(got, Tree{"x": 1, "z": 2}) {
		t.Fatalf("expected deep merge, got %v", got)
	}

	store.Merge(Tree{"b": Tree{"w": 3}}, true)
	if got, _ := store.Get("b"); !reflect.DeepEqual(got, Tree{"w": 3}) {
		t.Fatalf("expected wholesale replacement, got %v", got)
	}
	if got, _ := store.Get("a/x"); got != 1 {
		t.Fatalf("expected untouched key preserved, got %v", got)
	}
}

func TestOptionsStoreSelfMergeIsIdempotent(t *testing.T) {
	store := NewOptionsStore(nil, Tree{"a": Tree{"b": []any{1, Tree{"c": 2}}}, "s": "x"})
	before := store.All()
	snapshot := Tree{"a": Tree{"b": []any{1, Tree{"c": 2}}}, "s": "x"}

	store.Set("", before, false)
	if !reflect.DeepEqual(store.All(), snapshot) {
		t.Fatalf("expected self merge to be a no-op, got %v", store.All())
	}
}

func TestOptionsStoreRootRejectsNonTree(t *testing.T) {
	store := NewOptionsStore(nil, Tree{"a": 1})

	for _, value := range []any{5, "x", nil, []any{1}} {
		if change, written := store.Set("", value, false); written {
			t.Fatalf("expected %v at the root to be ignored, got %+v", value, change)
		}
	}
	if !reflect.DeepEqual(store.All(), Tree{"a": 1}) {
		t.Fatalf("expected tree unchanged, got %v", store.All())
	}

	change, written := store.Set("", Tree{"b": 2}, false)
	if !written || !reflect.DeepEqual(change.New, Tree{"a": 1, "b": 2}) || !reflect.DeepEqual(change.Old, Tree{"a": 1}) {
		t.Fatalf("expected root merge reported, got %+v written=%v", change, written)
	}
}

func TestOptionsStoreRelease(t *testing.T) {
	store := NewOptionsStore(nil, Tree{"a": 1})
	store.Release()

	if !store.Released() || store.All() != nil {
		t.Fatalf("expected released store")
	}
	if _, ok := store.Get("a"); ok {
		t.Fatalf("expected reads to report absent after release")
	}
	if _, written := store.Set("a", 2, false); written {
		t.Fatalf("expected writes to be ignored after release")
	}
	store.Release()
}
