package lemonway

import (
	"errors"
	"sort"
	"unicode"
)

// Attributes is the untyped key/value input of a call. Keys may be written in
// snake_case or in the camelCase used on the wire.
type Attributes map[string]any

func (a Attributes) clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// NormalizeKeys rewrites the keys of attrs in place to their wire casing.
// When two keys collapse onto the same wire key nothing is rewritten and a
// *ValidationError listing the collisions is returned.
func NormalizeKeys(attrs Attributes) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	wire := make(map[string]string, len(keys))
	seen := make(map[string]int, len(keys))
	for _, k := range keys {
		w := Camelize(k)
		wire[k] = w
		seen[w]++
	}

	var dup []string
	for w, n := range seen {
		if n > 1 {
			dup = append(dup, w)
		}
	}
	if len(dup) > 0 {
		sort.Strings(dup)
		return &ValidationError{Duplicate: dup}
	}

	for _, k := range keys {
		if w := wire[k]; w != k {
			attrs[w] = attrs[k]
			delete(attrs, k)
		}
	}
	return nil
}

// ValidateAttributes normalizes attrs in place, then checks that every
// required key is present and that no key falls outside required ∪ optional.
// All violations are reported together in one *ValidationError.
func ValidateAttributes(attrs Attributes, required, optional []string) error {
	if err := NormalizeKeys(attrs); err != nil {
		return err
	}

	allowed := make(map[string]struct{}, len(required)+len(optional))
	verr := &ValidationError{}
	for _, k := range required {
		if _, dup := allowed[k]; dup {
			continue
		}
		allowed[k] = struct{}{}
		if _, ok := attrs[k]; !ok {
			verr.Missing = append(verr.Missing, k)
		}
	}
	for _, k := range optional {
		allowed[k] = struct{}{}
	}
	for k := range attrs {
		if _, ok := allowed[k]; !ok {
			verr.Unexpected = append(verr.Unexpected, k)
		}
	}

	if verr.empty() {
		return nil
	}
	sort.Strings(verr.Missing)
	sort.Strings(verr.Unexpected)
	return verr
}

// Field is one child element of a request body.
type Field struct {
	Name  string
	Value any
}

// Request is a validated call ready for encoding: the wire method and its
// fields in the order they are written.
type Request struct {
	Operation string
	Method    string
	Fields    []Field
}

// Value returns the value of the named field.
func (r *Request) Value(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// buildRequest merges call attributes over a copy of the defaults and lays
// the fields out deterministically: default keys in profile order, then call
// keys in the operation's declared order. A call value replaces a default in
// place. With op nil nothing is whitelisted and the remaining call keys
// follow in sorted order.
func buildRequest(method string, p Profile, op *Operation, defaults, call Attributes) (*Request, error) {
	name := method
	if op != nil {
		name = op.Name
	}
	if call == nil {
		call = Attributes{}
	}
	if err := NormalizeKeys(call); err != nil {
		return nil, withOperation(err, name)
	}

	merged := defaults.clone()
	for k, v := range call {
		merged[k] = v
	}
	if bad := invalidNames(method, merged); len(bad) > 0 {
		return nil, &ValidationError{Operation: name, Invalid: bad}
	}

	order := [][]string{p.Required, p.Optional}
	if op != nil {
		required := append(append([]string{}, op.Required...), p.Required...)
		optional := append(append([]string{}, op.Optional...), p.Optional...)
		if err := ValidateAttributes(merged, required, optional); err != nil {
			return nil, withOperation(err, name)
		}
		order = append(order, op.Required, op.Optional)
	}

	req := &Request{Operation: name, Method: method, Fields: make([]Field, 0, len(merged))}
	placed := make(map[string]struct{}, len(merged))
	for _, keys := range order {
		for _, k := range keys {
			if _, done := placed[k]; done {
				continue
			}
			if v, ok := merged[k]; ok {
				req.Fields = append(req.Fields, Field{Name: k, Value: v})
				placed[k] = struct{}{}
			}
		}
	}

	var rest []string
	for k := range merged {
		if _, done := placed[k]; !done {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		req.Fields = append(req.Fields, Field{Name: k, Value: merged[k]})
	}
	return req, nil
}

// invalidNames lists the method and keys, nested ones included, that cannot
// be written as XML element names.
func invalidNames(method string, attrs Attributes) []string {
	var bad []string
	if !isElementName(method) {
		bad = append(bad, method)
	}
	collectInvalid("", attrs, &bad)
	sort.Strings(bad)
	return bad
}

func collectInvalid[M ~map[string]any](prefix string, m M, bad *[]string) {
	for k, v := range m {
		if !isElementName(k) {
			*bad = append(*bad, prefix+k)
			continue
		}
		collectNested(prefix+k+".", v, bad)
	}
}

func collectNested(prefix string, v any, bad *[]string) {
	switch val := v.(type) {
	case Map:
		collectInvalid(prefix, val, bad)
	case map[string]any:
		collectInvalid(prefix, val, bad)
	case Attributes:
		collectInvalid(prefix, val, bad)
	case []Map:
		for _, item := range val {
			collectInvalid(prefix, item, bad)
		}
	case []any:
		for _, item := range val {
			collectNested(prefix, item, bad)
		}
	}
}

// isElementName reports whether s is an XML name without a namespace prefix.
func isElementName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

func withOperation(err error, name string) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		verr.Operation = name
	}
	return err
}
