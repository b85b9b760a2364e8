package base

import "github.com/goliatone/go-base/layering"

// ConstructorScope names the layer holding options passed to New.
const ConstructorScope = "options"

// Scope names one contributor of the defaults chain: a class in the lineage
// or the constructor options. Higher priority values represent stronger
// layers.
type Scope struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// Layer pairs a scope with the defaults template it contributed.
type Layer struct {
	Scope    Scope
	Snapshot Tree
}

// newLayer constructs a Layer holding a private copy of snapshot.
func newLayer(scope Scope, snapshot Tree) Layer {
	return Layer{
		Scope:    scope,
		Snapshot: layering.CloneTree(snapshot),
	}
}

func cloneLayer(layer Layer) Layer {
	return newLayer(layer.Scope, layer.Snapshot)
}

// strongestFirst returns layers reversed so that index 0 has the highest
// priority. The input is ordered weakest first.
func strongestFirst(layers []Layer) []Layer {
	out := make([]Layer, len(layers))
	for i := range layers {
		out[len(layers)-1-i] = layers[i]
	}
	return out
}

// traceLayers reports, for each layer, whether it supplied a value at path.
func traceLayers(path string, layers []Layer) []Provenance {
	segments := SplitPath(path)
	out := make([]Provenance, 0, len(layers))
	for _, layer := range layers {
		value, found := lookup(layer.Snapshot, segments)
		entry := Provenance{
			Scope: layer.Scope,
			Path:  path,
			Found: found,
		}
		if found {
			entry.Value = layering.Clone(value)
		}
		out = append(out, entry)
	}
	return out
}
