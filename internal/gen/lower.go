package gen

import (
	"sort"
	"strconv"
	"unicode"

	"github.com/iancoleman/strcase"

	ir "github.com/reoring/schematype/internal/ir"
	"github.com/reoring/schematype/shape"
)

// Lower turns named Derived Types into Go declarations. Every recursive
// handle reachable from them gets its own declaration; a root that is itself
// a handle takes the root's name.
func Lower(types map[string]shape.Type) []ir.Decl {
	l := &lowerer{names: map[*shape.Named]string{}, used: map[string]bool{}}
	roots := make([]string, 0, len(types))
	for name := range types {
		roots = append(roots, name)
	}
	sort.Strings(roots)

	goNames := make(map[string]string, len(roots))
	for _, name := range roots {
		gn := l.unique(exportedName(name))
		goNames[name] = gn
		if n, ok := types[name].(*shape.Named); ok {
			if _, seen := l.names[n]; !seen {
				l.names[n] = gn
			}
		}
	}

	var decls []ir.Decl
	declared := map[*shape.Named]bool{}
	for _, name := range roots {
		t := types[name]
		target := t
		if n, ok := t.(*shape.Named); ok && l.names[n] == goNames[name] {
			declared[n] = true
			target = n.Target()
		}
		decls = append(decls, ir.Decl{Name: goNames[name], Type: l.lower(target), Comment: shape.Format(t)})
	}
	for _, name := range roots {
		for _, n := range shape.NamedIn(types[name]) {
			if declared[n] {
				continue
			}
			declared[n] = true
			decls = append(decls, ir.Decl{Name: l.nameOf(n), Type: l.lower(n.Target())})
		}
	}
	return decls
}

type lowerer struct {
	names map[*shape.Named]string
	used  map[string]bool
}

func (l *lowerer) unique(name string) string {
	out := name
	for i := 2; l.used[out]; i++ {
		out = name + strconv.Itoa(i)
	}
	l.used[out] = true
	return out
}

func (l *lowerer) nameOf(n *shape.Named) string {
	if name, ok := l.names[n]; ok {
		return name
	}
	name := l.unique(exportedName(n.Name))
	l.names[n] = name
	return name
}

var (
	identAny     = &ir.Ident{Name: "any"}
	identString  = &ir.Ident{Name: "string"}
	identBool    = &ir.Ident{Name: "bool"}
	identInt64   = &ir.Ident{Name: "int64"}
	identFloat64 = &ir.Ident{Name: "float64"}
	identTime    = &ir.Ident{Name: "time.Time", Import: "time"}
)

func (l *lowerer) lower(t shape.Type) ir.Type {
	switch x := t.(type) {
	case nil:
		return identAny
	case *shape.Named:
		return &ir.Ident{Name: l.nameOf(x)}
	case *shape.Primitive:
		switch x.Kind() {
		case shape.KindString:
			return identString
		case shape.KindBoolean:
			return identBool
		case shape.KindNumber:
			if x.Integer {
				return identInt64
			}
			return identFloat64
		case shape.KindDateTime:
			return identTime
		case shape.KindBinary:
			return &ir.Slice{Elem: &ir.Ident{Name: "byte"}}
		}
		return identAny
	case *shape.Literal:
		switch shape.LiteralKind(x.Value) {
		case shape.KindString:
			return identString
		case shape.KindBoolean:
			return identBool
		case shape.KindNumber:
			return identFloat64
		}
		return identAny
	case *shape.Array:
		return &ir.Slice{Elem: l.lower(x.Items)}
	case *shape.Object:
		if len(x.Props) == 0 {
			return &ir.Map{Elem: l.lower(x.Extra)}
		}
		return l.object(x)
	case *shape.Union:
		return l.union(x)
	}
	return identAny
}

func (l *lowerer) object(o *shape.Object) ir.Type {
	s := &ir.Struct{}
	used := map[string]bool{}
	for _, p := range o.Props {
		gn := exportedName(p.Name)
		for i := 2; used[gn]; i++ {
			gn = exportedName(p.Name) + strconv.Itoa(i)
		}
		used[gn] = true
		ft := l.lower(p.Type)
		if (p.Optional && !ir.Nilable(ft)) || l.isNamedStruct(p.Type) {
			ft = &ir.Pointer{Elem: ft}
		}
		f := ir.Field{GoName: gn, JSONName: p.Name, Type: ft, OmitEmpty: p.Optional}
		if p.HasDefault {
			f.Default = p.Default
		}
		s.Fields = append(s.Fields, f)
	}
	return s
}

// isNamedStruct reports whether t is a handle to an object with declared
// properties; such fields are pointers so recursive declarations stay finite.
func (l *lowerer) isNamedStruct(t shape.Type) bool {
	if _, ok := t.(*shape.Named); !ok {
		return false
	}
	o, ok := shape.Deref(t).(*shape.Object)
	return ok && len(o.Props) > 0
}

func (l *lowerer) union(u *shape.Union) ir.Type {
	var rest []shape.Type
	nullable := false
	for _, m := range u.Members {
		if m.Kind() == shape.KindNull {
			nullable = true
			continue
		}
		if lit, ok := m.(*shape.Literal); ok && lit.Value == nil {
			nullable = true
			continue
		}
		rest = append(rest, m)
	}
	var base ir.Type = identAny
	switch {
	case len(rest) == 1:
		base = l.lower(rest[0])
	case len(rest) > 1:
		base = l.common(rest)
	}
	if nullable && !ir.Nilable(base) {
		return &ir.Pointer{Elem: base}
	}
	return base
}

// common returns the Go type shared by every member, or any.
func (l *lowerer) common(ms []shape.Type) ir.Type {
	first := l.lower(ms[0])
	id, ok := first.(*ir.Ident)
	if !ok {
		return identAny
	}
	for _, m := range ms[1:] {
		other, ok := l.lower(m).(*ir.Ident)
		if !ok || other.Name != id.Name {
			return identAny
		}
	}
	return id
}

func exportedName(s string) string {
	name := strcase.ToCamel(s)
	if name == "" {
		return "Field"
	}
	r := []rune(name)
	if !unicode.IsLetter(r[0]) {
		return "X" + name
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
