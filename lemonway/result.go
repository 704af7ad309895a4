package lemonway

import (
	"fmt"
	"strings"
)

// Map is a decoded response. Elements with children are nested Maps,
// repeated siblings are []any and leaves are strings.
type Map map[string]any

// Lookup walks path through nested Maps.
func (m Map) Lookup(path ...string) (any, bool) {
	var cur any = m
	for _, key := range path {
		node, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = node[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Text returns the leaf at path, or "" when it is absent or not text.
func (m Map) Text(path ...string) string {
	s, _ := m.Leaf(path...)
	return s
}

// Leaf returns the text at path. An empty element decodes as "".
func (m Map) Leaf(path ...string) (string, error) {
	v, ok := m.Lookup(path...)
	if !ok {
		return "", missing(path)
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case nil:
		return "", nil
	case Map:
		if s, ok := val["content"].(string); ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not text", ErrUnexpectedResponse, strings.Join(path, "."))
}

// Sub returns the element at path as a Map.
func (m Map) Sub(path ...string) (Map, error) {
	v, ok := m.Lookup(path...)
	if !ok {
		return nil, missing(path)
	}
	node, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an element", ErrUnexpectedResponse, strings.Join(path, "."))
	}
	return node, nil
}

// Records returns the elements at path as a slice, whether the service sent
// one element or a repeated list.
func (m Map) Records(path ...string) ([]Map, error) {
	v, ok := m.Lookup(path...)
	if !ok {
		return nil, missing(path)
	}
	if node, ok := asMap(v); ok {
		return []Map{node}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list", ErrUnexpectedResponse, strings.Join(path, "."))
	}
	out := make([]Map, 0, len(items))
	for i, item := range items {
		node, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not an element", ErrUnexpectedResponse, strings.Join(path, "."), i)
		}
		out = append(out, node)
	}
	return out, nil
}

func asMap(v any) (Map, bool) {
	switch val := v.(type) {
	case Map:
		return val, true
	case map[string]any:
		return Map(val), true
	}
	return nil, false
}

func missing(path []string) error {
	return fmt.Errorf("%w: missing %s", ErrUnexpectedResponse, strings.Join(path, "."))
}
