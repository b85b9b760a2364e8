package base

import (
	"errors"

	"github.com/goliatone/go-base/layering"
	"github.com/goliatone/go-base/pkg/activity"
	"github.com/google/uuid"
)

// ChangeEvent is fired after every option write that modified the tree,
// with a Change argument.
const ChangeEvent = "change"

// ErrDestroyed is returned by fallible operations on a destroyed instance.
var ErrDestroyed = errors.New("base: instance destroyed")

// Change describes an option write.
type Change struct {
	Path     string
	Old      any
	New      any
	Existed  bool
	Override bool
}

// Base is a component instance: an options tree seeded from its class
// lineage, an event emitter and a method table with before/after
// interception. A Base is confined to one goroutine at a time.
type Base struct {
	id      string
	class   *Class
	store   *OptionsStore
	layers  []Layer
	emitter *Emitter
	methods map[string]Method
	chains  map[string]*aspectChain
	state   any

	destroyed bool

	cfg      config
	activity *activity.Emitter
}

// New constructs an instance of class (Root when nil). options override the
// class defaults chain; the "events" option is wired before New returns.
func New(class *Class, options Tree, opts ...Option) *Base {
	if class == nil {
		class = Root
	}
	cfg := applyOptions(opts)
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	b := &Base{
		id:       cfg.id,
		class:    class,
		methods:  class.methodTable(),
		chains:   make(map[string]*aspectChain),
		cfg:      cfg,
		activity: activity.NewEmitter(cfg.activityHooks, cfg.activityConfig, activity.Component{
			ID:      cfg.id,
			Class:   class.Name(),
			Lineage: class.Lineage(),
		}, cfg.activityIdentity),
	}
	b.emitter = NewEmitter(b)
	for _, err := range cfg.setupErrors {
		b.logger().Warn("invalid instance option", "class", class.Name(), "error", err)
	}
	b.initialize(options)
	b.InitEvents(nil)
	b.emitCreated()
	return b
}

func (b *Base) initialize(options Tree) {
	b.store = NewOptionsStore(b.class.Chain(), options)
	layers := b.class.lineageLayers()
	layers = append(layers, newLayer(Scope{Name: ConstructorScope, Priority: len(layers)}, options))
	b.layers = layers
}

// ID returns the instance identifier.
func (b *Base) ID() string {
	return b.id
}

// Class returns the class the instance was constructed from.
func (b *Base) Class() *Class {
	return b.class
}

// State returns the opaque status value.
func (b *Base) State() any {
	return b.state
}

// SetState stores an opaque status value.
func (b *Base) SetState(state any) *Base {
	if !b.destroyed {
		b.state = state
	}
	return b
}

// Options returns the live options tree, nil once destroyed.
func (b *Base) Options() Tree {
	return b.store.All()
}

// Option returns the value at path ("a/b/c"). The boolean is false when the
// path is absent; an explicit null reads as (nil, true).
func (b *Base) Option(path string) (any, bool) {
	return b.store.Get(path)
}

// SetOption deep merges value at path.
func (b *Base) SetOption(path string, value any) *Base {
	return b.write(path, value, false)
}

// OverrideOption replaces the node at path with value.
func (b *Base) OverrideOption(path string, value any) *Base {
	return b.write(path, value, true)
}

// MergeOptions deep merges tree into the root.
func (b *Base) MergeOptions(tree Tree) *Base {
	return b.write("", tree, false)
}

// OverrideOptions replaces each top-level key of tree wholesale.
func (b *Base) OverrideOptions(tree Tree) *Base {
	return b.write("", tree, true)
}

func (b *Base) write(path string, value any, override bool) *Base {
	if b.destroyed {
		return b
	}
	change, written := b.store.Set(path, value, override)
	if !written {
		b.logger().Debug("ignoring option write", "class", b.class.Name(), "path", path)
		return b
	}
	b.Fire(ChangeEvent, change)
	b.emitOptionUpdated(change)
	return b
}

// Trace reports the live value at path and which lineage layers supplied
// it, strongest first.
func (b *Base) Trace(path string) Trace {
	value, found := b.Option(path)
	trace := Trace{Path: path, Found: found}
	if found {
		trace.Value = layering.Clone(value)
	}
	if b.destroyed {
		return trace
	}
	trace.Layers = traceLayers(path, strongestFirst(b.layers))
	return trace
}

// On subscribes handler to the plain event name.
func (b *Base) On(name string, handler Handler) *Base {
	if !b.destroyed {
		b.emitter.On(name, handler)
	}
	return b
}

// Off removes listeners for names, or every listener when none is given.
func (b *Base) Off(names ...string) *Base {
	b.emitter.Off(names...)
	return b
}

// Fire calls the listeners of name with args.
func (b *Base) Fire(name string, args ...any) *Base {
	if !b.destroyed {
		b.emitter.Fire(name, args...)
	}
	return b
}

// Destroy removes every subscription and releases instance state. Calling it
// again is a no-op.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.emitter.Off()
	b.store.Release()
	b.layers = nil
	b.methods = nil
	b.chains = nil
	b.state = nil
	b.emitDestroyed()
}

// Destroyed reports whether Destroy has been called.
func (b *Base) Destroyed() bool {
	return b.destroyed
}
