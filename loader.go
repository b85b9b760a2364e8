package base

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat reports an options file format LoadTree cannot read.
var ErrUnsupportedFormat = errors.New("base: unsupported options format")

// RuleTag marks a YAML scalar as a Rule handler: `before:save: !rule "dirty"`.
const RuleTag = "!rule"

// LoadTreeFile reads an options tree from a YAML (.yaml, .yml) or JSON
// (.json or no extension) file.
func LoadTreeFile(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("base: read options file %q: %w", path, err)
	}
	tree, err := LoadTree(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("base: load options file %q: %w", path, err)
	}
	return tree, nil
}

// LoadTree decodes data in format ("yaml", "yml", "json" or "") into a tree.
// YAML mappings under an "events" key decode into ordered Events.
func LoadTree(data []byte, format string) (Tree, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return loadYAML(data)
	case "json", "":
		return loadJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func loadJSON(data []byte) (Tree, error) {
	tree := Tree{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return tree, nil
	}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func loadYAML(data []byte) (Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Tree{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("base: options document must be a mapping, line %d", root.Line)
	}
	value, err := yamlValue(root, "")
	if err != nil {
		return nil, err
	}
	return value.(Tree), nil
}

func yamlValue(node *yaml.Node, key string) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return yamlValue(node.Alias, key)
	case yaml.MappingNode:
		if key == EventsKey {
			return yamlEvents(node)
		}
		tree := make(Tree, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			if isMergeKey(node.Content[i]) {
				if err := yamlMerge(tree, node.Content[i+1]); err != nil {
					return nil, err
				}
			}
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if isMergeKey(node.Content[i]) {
				continue
			}
			name := node.Content[i].Value
			value, err := yamlValue(node.Content[i+1], name)
			if err != nil {
				return nil, err
			}
			tree[name] = value
		}
		return tree, nil
	case yaml.SequenceNode:
		seq := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := yamlValue(item, "")
			if err != nil {
				return nil, err
			}
			seq = append(seq, value)
		}
		return seq, nil
	default:
		if node.Tag == RuleTag {
			return Rule(node.Value), nil
		}
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("base: decode value at line %d: %w", node.Line, err)
		}
		return value, nil
	}
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Value == "<<" && (node.Tag == "!!merge" || node.Tag == "")
}

// yamlMerge copies the keys of a "<<" mapping, or of each mapping in a "<<"
// sequence, into tree. Earlier sources win, explicit keys are applied later.
func yamlMerge(tree Tree, node *yaml.Node) error {
	sources := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		sources = node.Content
	}
	for i := len(sources) - 1; i >= 0; i-- {
		value, err := yamlValue(sources[i], "")
		if err != nil {
			return err
		}
		merged, ok := value.(Tree)
		if !ok {
			return fmt.Errorf("base: merge key at line %d must reference a mapping", node.Line)
		}
		for key, item := range merged {
			tree[key] = item
		}
	}
	return nil
}

func yamlEvents(node *yaml.Node) (Events, error) {
	events := make(Events, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		handler, err := yamlValue(node.Content[i+1], "")
		if err != nil {
			return nil, err
		}
		events = events.With(node.Content[i].Value, handler)
	}
	return events, nil
}
