package base

import (
	"github.com/goliatone/go-base/layering"
)

// EventsKey is the reserved option holding the events declaration.
const EventsKey = "events"

// Class describes a component type: its name, parent, own defaults template
// and method table. The defaults chain and the resolved method table are
// computed when the class is defined; a Class is immutable afterwards and
// may be shared freely.
type Class struct {
	name     string
	parent   *Class
	defaults Tree
	layers   []Layer
	methods  map[string]Method
}

// ClassOption configures a class definition.
type ClassOption func(*classConfig)

type classConfig struct {
	defaults Tree
	methods  map[string]Method
}

// WithDefaults merges tree into the class defaults template.
func WithDefaults(tree Tree) ClassOption {
	return func(cfg *classConfig) {
		cfg.defaults = layering.Merge(cfg.defaults, tree)
	}
}

// WithEvents declares class level events. Declarations overlay those of
// ancestors by key.
func WithEvents(events Events) ClassOption {
	return func(cfg *classConfig) {
		cfg.defaults = layering.Merge(cfg.defaults, Tree{EventsKey: events})
	}
}

// WithMethod adds or replaces a method in the class method table.
func WithMethod(name string, method Method) ClassOption {
	return func(cfg *classConfig) {
		if name == "" || method == nil {
			return
		}
		if cfg.methods == nil {
			cfg.methods = make(map[string]Method)
		}
		cfg.methods[name] = method
	}
}

// WithMethods adds every entry of methods to the class method table.
func WithMethods(methods map[string]Method) ClassOption {
	return func(cfg *classConfig) {
		for name, method := range methods {
			WithMethod(name, method)(cfg)
		}
	}
}

// Root is the empty base class every lineage starts from.
var Root = NewClass("Base")

// NewClass defines a class without a parent.
func NewClass(name string, opts ...ClassOption) *Class {
	return define(name, nil, opts)
}

// Extend defines a subclass of c. The subclass inherits c's defaults chain
// and methods; its own defaults and methods take precedence.
func (c *Class) Extend(name string, opts ...ClassOption) *Class {
	return define(name, c, opts)
}

func define(name string, parent *Class, opts []ClassOption) *Class {
	cfg := classConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.defaults == nil {
		cfg.defaults = Tree{}
	}

	class := &Class{
		name:     name,
		parent:   parent,
		defaults: cfg.defaults,
		methods:  make(map[string]Method),
	}
	if parent != nil {
		class.layers = make([]Layer, 0, len(parent.layers)+1)
		for _, layer := range parent.layers {
			class.layers = append(class.layers, cloneLayer(layer))
		}
		for methodName, method := range parent.methods {
			class.methods[methodName] = method
		}
	}
	class.layers = append(class.layers, newLayer(Scope{Name: name, Priority: len(class.layers)}, cfg.defaults))
	for methodName, method := range cfg.methods {
		class.methods[methodName] = method
	}
	return class
}

// Name returns the class name.
func (c *Class) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Parent returns the parent class, nil for root classes.
func (c *Class) Parent() *Class {
	if c == nil {
		return nil
	}
	return c.parent
}

// Defaults returns a copy of the class's own defaults template.
func (c *Class) Defaults() Tree {
	if c == nil {
		return Tree{}
	}
	return layering.CloneTree(c.defaults)
}

// Chain returns copies of the defaults templates ordered from the most base
// class to c.
func (c *Class) Chain() []Tree {
	if c == nil {
		return nil
	}
	out := make([]Tree, len(c.layers))
	for i, layer := range c.layers {
		out[i] = layering.CloneTree(layer.Snapshot)
	}
	return out
}

// Lineage returns class names ordered from the most base class to c.
func (c *Class) Lineage() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.layers))
	for i, layer := range c.layers {
		out[i] = layer.Scope.Name
	}
	return out
}

// IsA reports whether other is c or one of its ancestors.
func (c *Class) IsA(other *Class) bool {
	for current := c; current != nil; current = current.parent {
		if current == other {
			return true
		}
	}
	return false
}

// Method returns the method registered under name.
func (c *Class) Method(name string) (Method, bool) {
	if c == nil {
		return nil, false
	}
	method, ok := c.methods[name]
	return method, ok
}

func (c *Class) methodTable() map[string]Method {
	table := make(map[string]Method, len(c.methods))
	for name, method := range c.methods {
		table[name] = method
	}
	return table
}

func (c *Class) lineageLayers() []Layer {
	out := make([]Layer, len(c.layers))
	copy(out, c.layers)
	return out
}
