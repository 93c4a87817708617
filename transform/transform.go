package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eugenenazirov/yamlenv/codec"
	"github.com/eugenenazirov/yamlenv/envkey"
)

// Transformer converts between nested configuration trees and flat
// environment-variable mappings using a fixed prefix and separator.
type Transformer struct {
	Prefix    string
	Separator string
	Codec     codec.Codec
}

// Hint carries schema knowledge for a single flat key: the exact key path it
// belongs to and the expected kind of its value. Matching flat keys against
// hints is the unambiguous alternative to envkey.SplitKey.
type Hint struct {
	Path []string
	Kind codec.Kind
}

// Flatten walks the tree and emits one flat entry per leaf value. Lists and
// non-empty mappings under a key are leaves and sub-trees respectively; empty
// mappings are preserved as an explicit "{}" entry so they survive a round
// trip instead of vanishing.
func (t Transformer) Flatten(tree map[string]any) (map[string]string, error) {
	flat := make(map[string]string, len(tree))
	if err := t.flattenInto(flat, nil, tree); err != nil {
		return nil, err
	}
	return flat, nil
}

func (t Transformer) flattenInto(flat map[string]string, path []string, node map[string]any) error {
	for key, value := range node {
		childPath := append(append([]string(nil), path...), key)
		if child, ok := value.(map[string]any); ok && len(child) > 0 {
			if err := t.flattenInto(flat, childPath, child); err != nil {
				return err
			}
			continue
		}

		name, err := envkey.FlattenKey(childPath, t.Prefix, t.Separator)
		if err != nil {
			return fmt.Errorf("key %q: %w", strings.Join(childPath, "."), err)
		}
		text, err := t.Codec.Encode(value, codec.KindAny)
		if err != nil {
			return fmt.Errorf("key %q: %w", strings.Join(childPath, "."), err)
		}
		flat[name] = text
	}
	return nil
}

// Unflatten rebuilds a nested tree from a flat mapping. Each flat key is
// resolved to a path through hints when one matches, and through
// envkey.SplitKey otherwise; its value is decoded with the hint's kind when
// available. Keys are processed in sorted order so the result is
// deterministic. Conflicting structure is an ErrKeyCollision error.
func (t Transformer) Unflatten(flat map[string]string, hints map[string]Hint) (map[string]any, error) {
	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := make(map[string]any)
	for _, name := range names {
		path, kind, err := t.resolve(name, hints)
		if err != nil {
			return nil, err
		}
		value, err := t.Codec.Decode(flat[name], kind)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		if err := insert(tree, path, value); err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
	}
	return tree, nil
}

func (t Transformer) resolve(name string, hints map[string]Hint) ([]string, codec.Kind, error) {
	if hint, ok := hints[name]; ok {
		return hint.Path, hint.Kind, nil
	}
	path, err := envkey.SplitKey(name, t.Prefix, t.Separator)
	if err != nil {
		return nil, codec.KindAny, err
	}
	return path, codec.KindAny, nil
}

func insert(tree map[string]any, path []string, value any) error {
	node := tree
	for _, segment := range path[:len(path)-1] {
		child, ok := node[segment]
		if !ok {
			next := make(map[string]any)
			node[segment] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("segment %q already holds a value: %w", segment, ErrKeyCollision)
		}
		node = next
	}

	last := path[len(path)-1]
	if _, ok := node[last]; ok {
		return fmt.Errorf("segment %q named twice: %w", last, ErrKeyCollision)
	}
	node[last] = value
	return nil
}
