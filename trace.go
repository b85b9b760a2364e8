package base

import (
	"encoding/json"
)

// Trace captures provenance information for a path lookup: the live value
// plus how each lineage layer contributed to the initial tree.
type Trace struct {
	Path   string       `json:"path"`
	Value  any          `json:"value,omitempty"`
	Found  bool         `json:"found"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how a specific layer contributed to a traced path.
type Provenance struct {
	Scope Scope  `json:"scope"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// Supplier returns the strongest layer that supplied the path.
func (t Trace) Supplier() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
