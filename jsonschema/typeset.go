package jsonschema

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Type names recognised by the deriver.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// TypeSet is the value of the `type` keyword: either a single type name or an
// array of names. The two spellings derive differently, so the form is kept.
type TypeSet struct {
	names []string
	list  bool
}

// Type returns the single-name form, e.g. `"type": "string"`.
func Type(name string) TypeSet { return TypeSet{names: []string{name}} }

// Types returns the array form, e.g. `"type": ["string", "null"]`.
func Types(names ...string) TypeSet {
	return TypeSet{names: append([]string(nil), names...), list: true}
}

// IsZero reports whether `type` is absent.
func (t TypeSet) IsZero() bool { return len(t.names) == 0 && !t.list }

// IsList reports whether `type` was written as an array.
func (t TypeSet) IsList() bool { return t.list }

// Single returns the type name when `type` was written as a single string.
func (t TypeSet) Single() (string, bool) {
	if t.list || len(t.names) != 1 {
		return "", false
	}
	return t.names[0], true
}

// Names returns the declared type names in order.
func (t TypeSet) Names() []string { return append([]string(nil), t.names...) }

// Has reports whether name is among the declared names.
func (t TypeSet) Has(name string) bool {
	for _, n := range t.names {
		if n == name {
			return true
		}
	}
	return false
}

func (t TypeSet) MarshalJSON() ([]byte, error) {
	if t.list {
		if t.names == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(t.names)
	}
	if len(t.names) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(t.names[0])
}

func (t *TypeSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = TypeSet{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Type(s)
		return nil
	case '[':
		var ss []string
		if err := json.Unmarshal(data, &ss); err != nil {
			return fmt.Errorf("jsonschema: type array must hold strings: %w", err)
		}
		*t = Types(ss...)
		return nil
	default:
		return fmt.Errorf("jsonschema: type must be a string or an array, got %s", data)
	}
}
