package jsonschema

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	eng "github.com/reoring/schematype/internal/engine"
)

// DuplicateKeyError reports a key that appears twice in one mapping of a
// schema document. JSON sources fill Path; YAML sources fill the positions.
type DuplicateKeyError struct {
	Key       string
	Path      string // JSON Pointer of the enclosing object (JSON sources).
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
	}
	return fmt.Sprintf("duplicate JSON key %q in object at %s", e.Key, e.Path)
}

// Parse decodes a JSON schema document. Duplicate keys are rejected because
// the winning value would depend on the decoder.
func Parse(data []byte) (*Schema, error) {
	dups, err := eng.DetectJSONDuplicateKeysBytes(data, eng.DupError, 1)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: invalid JSON: %w", err)
	}
	for _, d := range dups {
		switch d.Code {
		case eng.CodeDuplicateKey:
			return nil, &DuplicateKeyError{Key: d.Key, Path: d.Path}
		case eng.CodeParseError:
			return nil, fmt.Errorf("jsonschema: invalid JSON: %s", d.Message)
		}
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("jsonschema: decode: %w", err)
	}
	return &s, nil
}

// FromValue converts a decoded JSON-like value (map[string]any, bool) or any
// json.Marshaler into a Schema.
func FromValue(v any) (*Schema, error) {
	if v == nil {
		return nil, errors.New("jsonschema: nil schema")
	}
	if s, ok := v.(*Schema); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: cannot marshal input: %w", err)
	}
	return Parse(b)
}

// MustParse is Parse for literals in tests and package-level variables.
func MustParse(data string) *Schema {
	s, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return s
}

type wireSchema struct {
	ID          string `json:"$id,omitempty"`
	Schema      string `json:"$schema,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type    *TypeSet        `json:"type,omitempty"`
	Format  string          `json:"format,omitempty"`
	Enum    []any           `json:"enum,omitempty"`
	Const   json.RawMessage `json:"const,omitempty"`
	Default json.RawMessage `json:"default,omitempty"`

	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`

	Defs        map[string]*Schema `json:"$defs,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"`

	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`
}

func (s Schema) MarshalJSON() ([]byte, error) {
	if s.Boolean != nil {
		if *s.Boolean {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	}
	w := wireSchema{
		ID: s.ID, Schema: s.Schema, Ref: s.Ref, Title: s.Title, Description: s.Description,
		Format: s.Format, Enum: s.Enum,
		Properties: s.Properties, Required: s.Required,
		AdditionalProperties: s.AdditionalProperties, Items: s.Items,
		Defs: s.Defs, Definitions: s.Definitions,
		AnyOf: s.AnyOf, OneOf: s.OneOf, AllOf: s.AllOf,
	}
	if !s.Type.IsZero() {
		t := s.Type
		w.Type = &t
	}
	if s.HasConst() {
		b, err := json.Marshal(s.Const)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: const: %w", err)
		}
		w.Const = b
	}
	if s.HasDefault() {
		b, err := json.Marshal(s.Default)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: default: %w", err)
		}
		w.Default = b
	}
	return json.Marshal(w)
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*s = *True()
		return nil
	case "false":
		*s = *False()
		return nil
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("jsonschema: schema must be an object or a boolean: %w", err)
	}
	var w wireSchema
	if err := decodeNumbers(data, &w); err != nil {
		return err
	}
	*s = Schema{
		ID: w.ID, Schema: w.Schema, Ref: w.Ref, Title: w.Title, Description: w.Description,
		Format: w.Format, Enum: w.Enum,
		Properties: w.Properties, Required: w.Required,
		AdditionalProperties: w.AdditionalProperties, Items: w.Items,
		Defs: w.Defs, Definitions: w.Definitions,
		AnyOf: w.AnyOf, OneOf: w.OneOf, AllOf: w.AllOf,
	}
	if w.Type != nil {
		s.Type = *w.Type
	}
	if raw, ok := keys["const"]; ok {
		var v any
		if err := decodeNumbers(raw, &v); err != nil {
			return fmt.Errorf("jsonschema: const: %w", err)
		}
		s.SetConst(v)
	}
	if raw, ok := keys["default"]; ok {
		var v any
		if err := decodeNumbers(raw, &v); err != nil {
			return fmt.Errorf("jsonschema: default: %w", err)
		}
		s.SetDefault(v)
	}
	return nil
}

// decodeNumbers keeps numeric literals as json.Number so integer enum and
// const values survive exactly.
func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
