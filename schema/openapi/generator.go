// Package openapi renders option trees as OpenAPI-compatible JSON Schema.
package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	base "github.com/goliatone/go-base"
)

type generator struct {
	cfg generatorConfig
}

type generatorConfig struct {
	title       string
	description string
	required    bool
}

// GeneratorOption configures the generator.
type GeneratorOption func(*generatorConfig)

// WithTitle sets the root schema title.
func WithTitle(title string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.title = title
	}
}

// WithDescription sets the root schema description.
func WithDescription(description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.description = description
	}
}

// WithRequired lists every present key of an object as required.
func WithRequired() GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.required = true
	}
}

// NewGenerator constructs an OpenAPI-compatible schema generator.
func NewGenerator(opts ...GeneratorOption) base.SchemaGenerator {
	cfg := generatorConfig{title: "Options"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{cfg: cfg}
}

// Option returns a base.Option that wires the generator into an instance.
func Option(opts ...GeneratorOption) base.Option {
	return base.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(value any) (base.SchemaDocument, error) {
	schema, err := g.build(value)
	if err != nil {
		return base.SchemaDocument{}, err
	}
	if g.cfg.title != "" {
		schema["title"] = g.cfg.title
	}
	if g.cfg.description != "" {
		schema["description"] = g.cfg.description
	}
	return base.SchemaDocument{
		Format:   base.SchemaFormatOpenAPI,
		Document: schema,
	}, nil
}

func (g generator) build(value any) (map[string]any, error) {
	switch typed := value.(type) {
	case nil:
		return map[string]any{"nullable": true}, nil
	case map[string]any:
		return g.object(typed)
	case []any:
		return g.array(typed)
	case base.Events:
		return eventsSchema(typed), nil
	case base.Rule:
		return map[string]any{"type": "string", "format": "rule"}, nil
	case time.Time:
		return map[string]any{"type": "string", "format": "date-time"}, nil
	case []byte:
		return map[string]any{"type": "string", "format": "byte"}, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("openapi: map key type %s unsupported", rv.Type().Key())
		}
		tree := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			tree[iter.Key().String()] = iter.Value().Interface()
		}
		return g.object(tree)
	case reflect.Slice, reflect.Array:
		seq := make([]any, rv.Len())
		for i := range seq {
			seq[i] = rv.Index(i).Interface()
		}
		return g.array(seq)
	case reflect.Func:
		return map[string]any{"type": "string", "format": "go:func"}, nil
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type().String()),
		}, nil
	}
}

func (g generator) object(tree map[string]any) (map[string]any, error) {
	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	for _, name := range names {
		child, err := g.build(tree[name])
		if err != nil {
			return nil, fmt.Errorf("openapi: property %q: %w", name, err)
		}
		properties[name] = child
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if g.cfg.required && len(names) > 0 {
		schema["required"] = names
	}
	return schema, nil
}

func (g generator) array(seq []any) (map[string]any, error) {
	items := map[string]any{}
	if len(seq) > 0 {
		first, err := g.build(seq[0])
		if err != nil {
			return nil, err
		}
		items = first
	}
	return map[string]any{
		"type":  "array",
		"items": items,
	}, nil
}

func eventsSchema(events base.Events) map[string]any {
	properties := make(map[string]any, len(events))
	for _, key := range events.Keys() {
		handler, _ := events.Lookup(key)
		switch handler.(type) {
		case string:
			properties[key] = map[string]any{"type": "string", "format": "method"}
		case base.Rule:
			properties[key] = map[string]any{"type": "string", "format": "rule"}
		default:
			properties[key] = map[string]any{"type": "string", "format": "go:func"}
		}
	}
	return map[string]any{
		"type":                "object",
		"format":              "events",
		"properties":          properties,
		"x-declaration-order": events.Keys(),
	}
}
