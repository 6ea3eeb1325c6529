package projection

import (
	"bytes"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// Project encodes v and returns its object form with m applied.
// Ignored struct fields are zeroed before encoding so hidden relationships
// are never walked. A nil value projects to a nil map.
func Project(v any, m *Mixin) (map[string]any, error) {
	raw, err := json.Marshal(strip(v, m))
	if err != nil {
		return nil, &Error{Type: m.Name(), Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, &Error{Type: m.Name(), Err: err}
	}
	out, err := m.Apply(obj)
	if err != nil {
		return nil, &Error{Type: m.Name(), Err: err}
	}
	return out, nil
}

// Marshal returns the JSON bytes of v's projection under m. Object keys
// are emitted in sorted order.
func Marshal(v any, m *Mixin) ([]byte, error) {
	obj, err := Project(v, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, &Error{Type: m.Name(), Err: err}
	}
	return b, nil
}

// MarshalList encodes items as a JSON array. It never returns a partial
// array: any element failure fails the whole call. A nil or empty slice
// encodes as [].
func MarshalList[T any](items []T) ([]byte, error) {
	if len(items) == 0 {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, &Error{Type: "list", Err: err}
	}
	return b, nil
}

func strip(v any, m *Mixin) any {
	if len(m.ignored) == 0 {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Struct {
		return v
	}
	cp := reflect.New(rv.Type()).Elem()
	cp.Set(rv)
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if m.Hidden(jsonName(f)) {
			cp.Field(i).SetZero()
		}
	}
	return cp.Interface()
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
