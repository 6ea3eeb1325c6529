// Package projection overlays JSON visibility rules onto entity types
// without touching the entities' own field definitions.
//
// A Mixin names the JSON keys of a type that must never be emitted
// (Ignore) and the relationship keys that are emitted as identifiers only
// (Reference). Entities apply their mixin from MarshalJSON, so the rule
// holds for every caller: HTTP responses, log fields, cache payloads and
// published events alike.
package projection

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// ErrReferenceKey is returned when a referenced relationship value has no identifier key.
var ErrReferenceKey = errors.New("relationship value has no identifier key")

type Mixin struct {
	name    string
	ignored map[string]struct{}
	refs    map[string]string
}

func NewMixin(name string) *Mixin {
	return &Mixin{
		name:    name,
		ignored: map[string]struct{}{},
		refs:    map[string]string{},
	}
}

func (m *Mixin) Name() string { return m.name }

// Ignore hides the given JSON keys.
func (m *Mixin) Ignore(fields ...string) *Mixin {
	for _, f := range fields {
		m.ignored[f] = struct{}{}
		delete(m.refs, f)
	}
	return m
}

// Reference replaces a relationship value (object or array of objects) by
// the value(s) found under key in each related object.
func (m *Mixin) Reference(field, key string) *Mixin {
	delete(m.ignored, field)
	m.refs[field] = key
	return m
}

func (m *Mixin) Hidden(field string) bool {
	_, ok := m.ignored[field]
	return ok
}

// Ignored lists hidden keys in sorted order.
func (m *Mixin) Ignored() []string {
	out := make([]string, 0, len(m.ignored))
	for k := range m.ignored {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Apply rewrites obj in place and returns it.
func (m *Mixin) Apply(obj map[string]any) (map[string]any, error) {
	if obj == nil {
		return nil, nil
	}
	for f := range m.ignored {
		delete(obj, f)
	}
	for f, key := range m.refs {
		val, ok := obj[f]
		if !ok {
			continue
		}
		ref, err := reference(val, key)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", m.name, f, err)
		}
		if ref == nil {
			delete(obj, f)
			continue
		}
		obj[f] = ref
	}
	return obj, nil
}

func reference(val any, key string) (any, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		id, ok := v[key]
		if !ok {
			return nil, ErrReferenceKey
		}
		return id, nil
	case []any:
		ids := make([]any, 0, len(v))
		for _, item := range v {
			id, err := reference(item, key)
			if err != nil {
				return nil, err
			}
			if id != nil {
				ids = append(ids, id)
			}
		}
		return ids, nil
	default:
		// Already an identifier.
		return v, nil
	}
}

// Error reports that a value could not be converted to its JSON projection.
type Error struct {
	Type string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("project %s: %v", e.Type, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsSerialization reports whether err stems from a projection or JSON encoding failure.
func IsSerialization(err error) bool {
	if err == nil {
		return false
	}
	var pe *Error
	if errors.As(err, &pe) {
		return true
	}
	var ute *json.UnsupportedTypeError
	var uve *json.UnsupportedValueError
	var me *json.MarshalerError
	return errors.As(err, &ute) || errors.As(err, &uve) || errors.As(err, &me)
}
