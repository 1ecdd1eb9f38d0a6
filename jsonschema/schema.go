package jsonschema

// Schema is one Schema Node of a JSON Schema document (draft-07 with $defs).
// Only the keywords that influence the derived value shape are modelled;
// assertion keywords such as minLength or pattern are ignored when decoding.
type Schema struct {
	// Identification
	ID          string `json:"$id,omitempty"`
	Schema      string `json:"$schema,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Core
	Type    TypeSet `json:"type,omitempty"`
	Format  string  `json:"format,omitempty"`
	Enum    []any   `json:"enum,omitempty"`
	Const   any     `json:"const,omitempty"`
	Default any     `json:"default,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Local definitions. Definitions is the draft-07 spelling and is treated
	// exactly like Defs.
	Defs        map[string]*Schema `json:"$defs,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"`

	// Combinators
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`

	// Boolean is non-nil for the boolean schema forms `true` and `false`.
	// When set, every other field is ignored.
	Boolean *bool `json:"-"`

	hasConst   bool
	hasDefault bool
}

// True returns the boolean schema `true`, which accepts any value.
func True() *Schema {
	b := true
	return &Schema{Boolean: &b}
}

// False returns the boolean schema `false`, which accepts nothing.
func False() *Schema {
	b := false
	return &Schema{Boolean: &b}
}

// HasConst reports whether the node declares `const`, including `const: null`.
func (s *Schema) HasConst() bool { return s != nil && (s.hasConst || s.Const != nil) }

// SetConst sets `const`; use it to declare a null constant.
func (s *Schema) SetConst(v any) *Schema {
	s.Const = v
	s.hasConst = true
	return s
}

// HasDefault reports whether the node declares `default`, including `default: null`.
func (s *Schema) HasDefault() bool { return s != nil && (s.hasDefault || s.Default != nil) }

// SetDefault sets `default`; use it to declare a null default.
func (s *Schema) SetDefault(v any) *Schema {
	s.Default = v
	s.hasDefault = true
	return s
}

// IsRequired reports whether name is listed in `required`.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// LocalDefs returns the union of $defs and definitions. Entries in $defs win
// on a name clash.
func (s *Schema) LocalDefs() map[string]*Schema {
	if s == nil || (len(s.Defs) == 0 && len(s.Definitions) == 0) {
		return nil
	}
	if len(s.Definitions) == 0 {
		return s.Defs
	}
	if len(s.Defs) == 0 {
		return s.Definitions
	}
	out := make(map[string]*Schema, len(s.Defs)+len(s.Definitions))
	for k, v := range s.Definitions {
		out[k] = v
	}
	for k, v := range s.Defs {
		out[k] = v
	}
	return out
}

// DeclaresType reports whether the node's `type` names any of the given types.
func (s *Schema) DeclaresType(names ...string) bool {
	if s == nil {
		return false
	}
	for _, n := range names {
		if s.Type.Has(n) {
			return true
		}
	}
	return false
}
