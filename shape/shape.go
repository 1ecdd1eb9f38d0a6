// Package shape defines the Derived Type: the value shape computed from a
// Schema Node. Types form an immutable graph once derivation finishes;
// recursive schemas close their cycles through *Named handles.
package shape

import "sort"

// Kind identifies a Derived Type node.
type Kind int

const (
	KindAny Kind = iota
	KindNever
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindDateTime
	KindBinary
	KindLiteral
	KindArray
	KindObject
	KindUnion
	KindIntersection
	KindNamed
)

var kindNames = [...]string{
	KindAny:          "any",
	KindNever:        "never",
	KindNull:         "null",
	KindBoolean:      "boolean",
	KindNumber:       "number",
	KindString:       "string",
	KindDateTime:     "datetime",
	KindBinary:       "binary",
	KindLiteral:      "literal",
	KindArray:        "array",
	KindObject:       "object",
	KindUnion:        "union",
	KindIntersection: "intersection",
	KindNamed:        "named",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type is the root Derived Type interface.
type Type interface {
	Kind() Kind
	String() string
}

// Primitive covers the leaf kinds any, never, null, boolean, number, string,
// datetime and binary.
type Primitive struct {
	kind Kind
	// Integer marks numbers that came from `type: integer`. Conformance
	// ignores it; code generation uses it.
	Integer bool
	// Format is "date" or "date-time" for KindDateTime.
	Format string
}

func (p *Primitive) Kind() Kind { return p.kind }

var (
	anyType     = &Primitive{kind: KindAny}
	neverType   = &Primitive{kind: KindNever}
	nullType    = &Primitive{kind: KindNull}
	booleanType = &Primitive{kind: KindBoolean}
	numberType  = &Primitive{kind: KindNumber}
	integerType = &Primitive{kind: KindNumber, Integer: true}
	stringType  = &Primitive{kind: KindString}
	binaryType  = &Primitive{kind: KindBinary}
)

func Any() Type     { return anyType }
func Never() Type   { return neverType }
func Null() Type    { return nullType }
func Boolean() Type { return booleanType }
func Number() Type  { return numberType }
func Integer() Type { return integerType }
func String() Type  { return stringType }
func Binary() Type  { return binaryType }

// DateTime returns the rich date/time leaf. format is "date" or "date-time".
func DateTime(format string) Type {
	if format == "" {
		format = "date-time"
	}
	return &Primitive{kind: KindDateTime, Format: format}
}

// Literal is a single JSON value. Numbers are held as json.Number or a Go
// numeric kind; comparison is numeric.
type Literal struct {
	Value any
}

func (*Literal) Kind() Kind { return KindLiteral }

// LiteralOf returns the literal type of v.
func LiteralOf(v any) Type { return &Literal{Value: v} }

// Array is a sequence whose elements all have type Items.
type Array struct {
	Items Type
}

func (*Array) Kind() Kind { return KindArray }

// ArrayOf returns an array of items; nil items means unconstrained elements.
func ArrayOf(items Type) Type {
	if items == nil {
		items = anyType
	}
	return &Array{Items: items}
}

// Prop is one declared property of an Object.
type Prop struct {
	Name       string
	Type       Type
	Optional   bool
	Default    any
	HasDefault bool
}

// Object maps declared property names to types. Keys not declared are
// allowed; when Extra is non-nil their values must conform to it.
type Object struct {
	Props []Prop // sorted by Name
	Extra Type
}

func (*Object) Kind() Kind { return KindObject }

// NewObject builds an object; props are copied and sorted by name.
func NewObject(props []Prop, extra Type) *Object {
	ps := append([]Prop(nil), props...)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	return &Object{Props: ps, Extra: extra}
}

// Prop looks up a declared property.
func (o *Object) Prop(name string) (Prop, bool) {
	i := sort.Search(len(o.Props), func(i int) bool { return o.Props[i].Name >= name })
	if i < len(o.Props) && o.Props[i].Name == name {
		return o.Props[i], true
	}
	return Prop{}, false
}

// Union accepts a value conforming to at least one member. Inclusive marks
// unions derived from anyOf (several members may hold at once).
type Union struct {
	Members   []Type
	Inclusive bool
}

func (*Union) Kind() Kind { return KindUnion }

// Intersection accepts a value conforming to every member. It only survives
// where a structural merge was impossible, typically across a recursive
// handle that was still being derived.
type Intersection struct {
	Members []Type
}

func (*Intersection) Kind() Kind { return KindIntersection }

// Named is a lazily bound handle to another type. References produce Named
// handles so that recursive schemas stay finite.
type Named struct {
	Name   string
	Ref    string // the reference key it was resolved from, if any
	target Type
}

func (*Named) Kind() Kind { return KindNamed }

// NewNamed returns an unbound handle.
func NewNamed(name, ref string) *Named { return &Named{Name: name, Ref: ref} }

// Bind sets the target. A handle is bound exactly once, when the derivation
// of its target completes.
func (n *Named) Bind(t Type) {
	if n.target != nil {
		panic("shape: Named " + n.Name + " bound twice")
	}
	n.target = t
}

// Target returns the bound type, or nil while derivation is in progress.
func (n *Named) Target() Type { return n.target }

// Deref follows Named handles until a non-Named type. A handle chain that
// loops or is unbound yields Any.
func Deref(t Type) Type {
	seen := map[*Named]bool{}
	for {
		n, ok := t.(*Named)
		if !ok {
			return t
		}
		if seen[n] || n.target == nil {
			return anyType
		}
		seen[n] = true
		t = n.target
	}
}

// Walk visits t and every type reachable from it, each Named handle once.
// Returning false from fn skips the children of that node.
func Walk(t Type, fn func(Type) bool) {
	seen := map[*Named]bool{}
	var walk func(Type)
	walk = func(t Type) {
		if t == nil {
			return
		}
		if n, ok := t.(*Named); ok {
			if seen[n] {
				return
			}
			seen[n] = true
		}
		if !fn(t) {
			return
		}
		switch x := t.(type) {
		case *Array:
			walk(x.Items)
		case *Object:
			for _, p := range x.Props {
				walk(p.Type)
			}
			walk(x.Extra)
		case *Union:
			for _, m := range x.Members {
				walk(m)
			}
		case *Intersection:
			for _, m := range x.Members {
				walk(m)
			}
		case *Named:
			walk(x.target)
		}
	}
	walk(t)
}

// NamedIn returns the Named handles reachable from t in discovery order.
func NamedIn(t Type) []*Named {
	var out []*Named
	Walk(t, func(t Type) bool {
		if n, ok := t.(*Named); ok {
			out = append(out, n)
		}
		return true
	})
	return out
}
