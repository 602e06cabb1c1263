package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is a decoded JSON object that remembers the order its fields were
// declared in. The normalizer's first-key-wins matching depends on that
// order, which map-based unmarshalling would destroy.
type Object struct {
	keys   []string
	values map[string]any
}

// Keys returns the field names in declaration order.
func (o *Object) Keys() []string {
	return o.keys
}

// Get returns the value for key and whether the key exists.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.keys)
}

// Decode parses raw JSON into a value tree: objects become *Object, arrays
// []any, numbers json.Number, plus string, bool and nil. Numbers are kept
// as json.Number so stringification round-trips the upstream text.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode upstream payload: %w", err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &Object{values: make(map[string]any)}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key token %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if _, exists := obj.values[key]; !exists {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// ExtractArray locates the row payload inside an upstream response whose
// envelope shape is not contractually fixed. Precedence: the value itself,
// then .data, then .items, then the first array-valued top-level field in
// declaration order. Returns an empty slice when nothing matches.
func ExtractArray(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}

	obj, ok := v.(*Object)
	if !ok {
		return nil
	}

	for _, field := range []string{"data", "items"} {
		if val, ok := obj.Get(field); ok {
			if arr, ok := val.([]any); ok {
				return arr
			}
		}
	}

	for _, key := range obj.Keys() {
		val, _ := obj.Get(key)
		if arr, ok := val.([]any); ok {
			return arr
		}
	}

	return nil
}
