package lemonway

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/clbanning/mxj/v2"
)

const errorKey = "e"

// Decode parses a DirectKit response body into a Map. The document root
// element is unwrapped unless it is itself the error marker, and every key
// is normalized to lower_snake_case. Attributes become ordinary keys, text
// next to attributes is stored under "content" and namespace declarations
// are dropped. An empty body decodes to an empty Map.
func Decode(body []byte) (Map, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Map{}, nil
	}
	doc, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	root := normalize(map[string]any(doc)).(Map)
	if len(root) != 1 {
		return root, nil
	}
	for name, content := range root {
		if name == errorKey {
			return root, nil
		}
		if m, ok := content.(Map); ok {
			return m, nil
		}
	}
	return root, nil
}

func normalize(v any) any {
	switch val := v.(type) {
	case mxj.Map:
		return normalize(map[string]any(val))
	case map[string]any:
		out := make(Map, len(val))
		for k, item := range val {
			key, keep := normalizeKey(k)
			if !keep {
				continue
			}
			out[key] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return val
	}
}

func normalizeKey(k string) (string, bool) {
	k = strings.TrimPrefix(k, "-")
	if k == "xmlns" || strings.HasPrefix(k, "xmlns:") {
		return "", false
	}
	if i := strings.LastIndexByte(k, ':'); i >= 0 {
		k = k[i+1:]
	}
	if k == "#text" {
		return "content", true
	}
	return Underscore(k), true
}

// apiError reads the error envelope of a decoded response.
func apiError(operation string, payload Map) (*APIError, bool) {
	raw, ok := payload[errorKey]
	if !ok {
		return nil, false
	}
	e := &APIError{Operation: operation}
	switch env := raw.(type) {
	case Map:
		e.Code = env.Text("code")
		e.Message = env.Text("msg")
		e.Priority = env.Text("prio")
	case string:
		e.Message = env
	}
	return e, true
}
