package lemonway

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	xmlHeader        = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	serviceNamespace = "Service"
)

// MakeBody serializes a call into the XML document DirectKit expects:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<RegisterWallet xmlns="Service">
//	  <wallet>w1</wallet>
//	</RegisterWallet>
//
// Text is escaped, so values containing markup characters are safe.
func MakeBody(method string, fields []Field) ([]byte, error) {
	if !isElementName(method) {
		return nil, &ValidationError{Invalid: []string{method}}
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Space: serviceNamespace, Local: method}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}

	var invalid []string
	for _, f := range fields {
		ok, err := encodeValue(enc, f.Name, f.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s.%s: %w", method, f.Name, err)
		}
		if !ok {
			invalid = append(invalid, f.Name)
		}
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Invalid: invalid}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}
	return buf.Bytes(), nil
}

// encodeValue writes one element. It reports false, without writing, for
// names that are not XML names and values that have no text form.
func encodeValue(enc *xml.Encoder, name string, v any) (bool, error) {
	if !isElementName(name) {
		return false, nil
	}
	switch val := v.(type) {
	case Map:
		return encodeNested(enc, name, val)
	case map[string]any:
		return encodeNested(enc, name, val)
	case Attributes:
		return encodeNested(enc, name, val)
	case []any:
		for _, item := range val {
			if ok, err := encodeValue(enc, name, item); !ok || err != nil {
				return ok, err
			}
		}
		return true, nil
	case []string:
		for _, item := range val {
			if _, err := encodeValue(enc, name, item); err != nil {
				return false, err
			}
		}
		return true, nil
	case []Map:
		for _, item := range val {
			if ok, err := encodeValue(enc, name, item); !ok || err != nil {
				return ok, err
			}
		}
		return true, nil
	}

	text, ok := formatValue(v)
	if !ok {
		return false, nil
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return false, err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return false, err
		}
	}
	return true, enc.EncodeToken(start.End())
}

func encodeNested[M ~map[string]any](enc *xml.Encoder, name string, m M) (bool, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return false, err
	}
	for _, k := range keys {
		if ok, err := encodeValue(enc, k, m[k]); !ok || err != nil {
			return ok, err
		}
	}
	return true, enc.EncodeToken(start.End())
}

// formatValue renders scalar values as element text. Amounts given as
// decimal.Decimal are written with two decimals.
func formatValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case decimal.Decimal:
		return val.StringFixed(2), true
	case *decimal.Decimal:
		if val == nil {
			return "", true
		}
		return val.StringFixed(2), true
	case bool:
		return strconv.FormatBool(val), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(val), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case fmt.Stringer:
		return val.String(), true
	}

	// named string and integer types
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	}
	return "", false
}
