package ir

// Package ir defines the minimal intermediate representation used by the
// code generator: Go type expressions lowered from Derived Types. This
// package is internal and not part of the public API.

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodeIdent NodeKind = iota
	NodeSlice
	NodeMap
	NodePointer
	NodeStruct
)

// Type is the root IR node interface.
type Type interface {
	Kind() NodeKind
}

// Ident is a predeclared, qualified or generated type name such as "string",
// "time.Time" or "User".
type Ident struct {
	Name string
	// Import is the package path Name needs, if any.
	Import string
}

func (i *Ident) Kind() NodeKind { return NodeIdent }

// Slice represents []Elem.
type Slice struct {
	Elem Type
}

func (s *Slice) Kind() NodeKind { return NodeSlice }

// Map represents map[string]Elem.
type Map struct {
	Elem Type
}

func (m *Map) Kind() NodeKind { return NodeMap }

// Pointer represents *Elem.
type Pointer struct {
	Elem Type
}

func (p *Pointer) Kind() NodeKind { return NodePointer }

// Struct represents an inline struct type.
type Struct struct {
	Fields []Field
}

func (s *Struct) Kind() NodeKind { return NodeStruct }

// Field maps a JSON name to a Go field.
type Field struct {
	GoName    string
	JSONName  string
	Type      Type
	OmitEmpty bool
	Default   any // optional: schema default, rendered as a comment
}

// Decl is a named top-level type declaration.
type Decl struct {
	Name    string
	Type    Type
	Comment string
}

// Nilable reports whether the zero value of t already encodes absence.
func Nilable(t Type) bool {
	switch x := t.(type) {
	case *Slice, *Map, *Pointer:
		return true
	case *Ident:
		return x.Name == "any"
	}
	return false
}
