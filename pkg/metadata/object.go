package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Object is a decoded JSON object that remembers key order, so attribute
// grids list columns the way the metadata file does.
//
// Nested objects decode as Object, arrays as []any, numbers as json.Number.
type Object struct {
	keys   []string
	values map[string]any
}

// ParseObject decodes a JSON object.
func ParseObject(data []byte) (Object, error) {
	var o Object
	err := o.UnmarshalJSON(data)
	return o, err
}

// Keys returns the keys in document order.
func (o Object) Keys() []string { return o.keys }

// Len returns the number of keys.
func (o Object) Len() int { return len(o.keys) }

// Get returns the value of key.
func (o Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Value returns the value of key, nil when absent.
func (o Object) Value(key string) any { return o.values[key] }

// First returns the first non-nil value among keys.
func (o Object) First(keys ...string) any {
	for _, k := range keys {
		if v := o.values[k]; v != nil {
			return v
		}
	}
	return nil
}

// Map returns a shallow map view. Nested objects stay Object.
func (o Object) Map() map[string]any {
	m := make(map[string]any, len(o.keys))
	for k, v := range o.values {
		m[k] = v
	}
	return m
}

// Set adds or replaces a key, appending new keys at the end.
func (o *Object) Set(key string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// MarshalJSON writes keys in document order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object; any other JSON value is an error.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("metadata: expected object, got %v", tok)
	}
	obj, err := decodeObject(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("metadata: trailing data after object")
	}
	*o = obj
	return nil
}

// decodeObject reads members after the opening brace.
func decodeObject(dec *json.Decoder) (Object, error) {
	obj := Object{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Object{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Object{}, fmt.Errorf("metadata: invalid object key %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Object{}, err
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Object{}, err
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return decodeObject(dec)
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("metadata: unexpected delimiter %v", d)
}

// Objects returns the object elements of an array value, skipping others.
func Objects(v any) []Object {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Object, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(Object); ok {
			out = append(out, obj)
		}
	}
	return out
}
