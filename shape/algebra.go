package shape

import (
	"math/big"
	"reflect"
	"strconv"

	"github.com/goccy/go-json"
)

// UnionOf returns the union of ts. Nested unions are flattened, never is
// dropped, any absorbs everything and structurally equal members collapse.
func UnionOf(ts ...Type) Type { return unionOf(false, ts) }

// InclusiveUnionOf is UnionOf for anyOf: several members may hold at once.
func InclusiveUnionOf(ts ...Type) Type { return unionOf(true, ts) }

func unionOf(inclusive bool, ts []Type) Type {
	var members []Type
	var add func(t Type) bool
	add = func(t Type) bool {
		if t == nil {
			return true
		}
		switch t.Kind() {
		case KindAny:
			return false
		case KindNever:
			return true
		case KindUnion:
			for _, m := range t.(*Union).Members {
				if !add(m) {
					return false
				}
			}
			return true
		}
		for _, m := range members {
			if Equal(m, t) {
				return true
			}
		}
		members = append(members, t)
		return true
	}
	for _, t := range ts {
		if !add(t) {
			return anyType
		}
	}
	switch len(members) {
	case 0:
		return neverType
	case 1:
		return members[0]
	}
	return &Union{Members: members, Inclusive: inclusive}
}

// IntersectAll folds Intersect over ts left to right. The empty
// intersection is any.
func IntersectAll(ts ...Type) Type {
	in := newIntersector()
	var acc Type = anyType
	for _, t := range ts {
		acc = in.intersect(acc, t)
	}
	return acc
}

// Intersect returns the structural meet of a and b. Objects merge field by
// field: the key sets are unioned, a key is required when either side
// requires it, and shared keys intersect their types.
func Intersect(a, b Type) Type { return newIntersector().intersect(a, b) }

type pair struct{ a, b Type }

type intersector struct {
	active map[pair]bool
}

func newIntersector() *intersector { return &intersector{active: map[pair]bool{}} }

func (in *intersector) intersect(a, b Type) Type {
	if a == nil {
		a = anyType
	}
	if b == nil {
		b = anyType
	}
	if a == b {
		return a
	}
	switch {
	case a.Kind() == KindAny:
		return b
	case b.Kind() == KindAny:
		return a
	case a.Kind() == KindNever || b.Kind() == KindNever:
		return neverType
	}

	if a.Kind() == KindNamed || b.Kind() == KindNamed {
		return in.intersectNamed(a, b)
	}
	if u, ok := a.(*Union); ok {
		return in.distribute(u, b)
	}
	if u, ok := b.(*Union); ok {
		return in.distribute(u, a)
	}
	if a.Kind() == KindIntersection || b.Kind() == KindIntersection {
		return lazyIntersection(a, b)
	}

	switch x := a.(type) {
	case *Object:
		if y, ok := b.(*Object); ok {
			return in.mergeObjects(x, y)
		}
		return neverType
	case *Array:
		if y, ok := b.(*Array); ok {
			items := in.intersect(x.Items, y.Items)
			if items == x.Items {
				return x
			}
			return &Array{Items: items}
		}
		return neverType
	case *Literal:
		return intersectLiteral(x, b)
	case *Primitive:
		if l, ok := b.(*Literal); ok {
			return intersectLiteral(l, a)
		}
		y, ok := b.(*Primitive)
		if !ok {
			return neverType
		}
		if r, ok := refineString(x, y); ok {
			return r
		}
		if x.kind != y.kind {
			return neverType
		}
		if x.kind == KindNumber && y.Integer {
			return y
		}
		return x
	}
	return neverType
}

func (in *intersector) intersectNamed(a, b Type) Type {
	key := pair{a, b}
	if in.active[key] {
		return lazyIntersection(a, b)
	}
	na, aNamed := a.(*Named)
	nb, bNamed := b.(*Named)
	if (aNamed && na.target == nil) || (bNamed && nb.target == nil) {
		return lazyIntersection(a, b)
	}
	in.active[key] = true
	defer delete(in.active, key)
	ta, tb := a, b
	if aNamed {
		ta = na.target
	}
	if bNamed {
		tb = nb.target
	}
	r := in.intersect(ta, tb)
	// Keep the handle when the other side did not narrow it.
	if aNamed && r == na.target {
		return a
	}
	if bNamed && r == nb.target {
		return b
	}
	return r
}

func (in *intersector) distribute(u *Union, other Type) Type {
	parts := make([]Type, 0, len(u.Members))
	for _, m := range u.Members {
		parts = append(parts, in.intersect(m, other))
	}
	return unionOf(u.Inclusive, parts)
}

func (in *intersector) mergeObjects(a, b *Object) Type {
	props := make([]Prop, 0, len(a.Props)+len(b.Props))
	for _, pa := range a.Props {
		p := pa
		if pb, ok := b.Prop(pa.Name); ok {
			p.Type = in.intersect(pa.Type, pb.Type)
			p.Optional = pa.Optional && pb.Optional
			if pb.HasDefault {
				p.Default, p.HasDefault = pb.Default, true
			}
		} else if b.Extra != nil {
			p.Type = in.intersect(pa.Type, b.Extra)
		}
		if p.Type.Kind() == KindNever && !p.Optional {
			return neverType
		}
		props = append(props, p)
	}
	for _, pb := range b.Props {
		if _, ok := a.Prop(pb.Name); ok {
			continue
		}
		p := pb
		if a.Extra != nil {
			p.Type = in.intersect(pb.Type, a.Extra)
		}
		if p.Type.Kind() == KindNever && !p.Optional {
			return neverType
		}
		props = append(props, p)
	}
	var extra Type
	switch {
	case a.Extra != nil && b.Extra != nil:
		extra = in.intersect(a.Extra, b.Extra)
	case a.Extra != nil:
		extra = a.Extra
	default:
		extra = b.Extra
	}
	return NewObject(props, extra)
}

func lazyIntersection(a, b Type) Type {
	var members []Type
	for _, t := range []Type{a, b} {
		if x, ok := t.(*Intersection); ok {
			members = append(members, x.Members...)
			continue
		}
		members = append(members, t)
	}
	return &Intersection{Members: members}
}

func intersectLiteral(l *Literal, other Type) Type {
	switch o := other.(type) {
	case *Literal:
		if LiteralEqual(l.Value, o.Value) {
			return l
		}
		return neverType
	case *Primitive:
		k := LiteralKind(l.Value)
		if k == o.kind {
			return l
		}
		if k == KindString && isRichString(o) {
			return o
		}
	}
	return neverType
}

// refineString meets plain string with a date/time or binary leaf; the
// leaf wins.
func refineString(x, y *Primitive) (Type, bool) {
	switch {
	case x.kind == KindString && isRichString(y):
		return y, true
	case y.kind == KindString && isRichString(x):
		return x, true
	}
	return nil, false
}

func isRichString(p *Primitive) bool {
	return p.kind == KindDateTime || p.kind == KindBinary
}

// LiteralKind reports the primitive kind a literal value belongs to.
// Composite literals report KindObject or KindArray.
func LiteralKind(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case string:
		return KindString
	case json.Number, float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	}
	return KindAny
}

// LiteralEqual compares two JSON values; numbers compare by value.
func LiteralEqual(a, b any) bool {
	if ra, ok := toRat(a); ok {
		rb, ok := toRat(b)
		return ok && ra.Cmp(rb) == 0
	}
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !LiteralEqual(v, w) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !LiteralEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// toRat converts numeric Go values (including json.Number) to an exact rational.
func toRat(v any) (*big.Rat, bool) {
	r := new(big.Rat)
	switch n := v.(type) {
	case json.Number:
		if _, ok := r.SetString(string(n)); ok {
			return r, true
		}
		return nil, false
	case float64:
		if _, ok := r.SetString(strconv.FormatFloat(n, 'g', -1, 64)); ok {
			return r, true
		}
		return nil, false
	case float32:
		return toRat(float64(n))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return r.SetInt64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return r.SetFrac(new(big.Int).SetUint64(rv.Uint()), big.NewInt(1)), true
	}
	return nil, false
}

// Equal reports structural equality. Named handles compare by identity.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Primitive:
		y := b.(*Primitive)
		return x.Integer == y.Integer && x.Format == y.Format
	case *Literal:
		y := b.(*Literal)
		return LiteralKind(x.Value) == LiteralKind(y.Value) && LiteralEqual(x.Value, y.Value)
	case *Array:
		return Equal(x.Items, b.(*Array).Items)
	case *Object:
		y := b.(*Object)
		if len(x.Props) != len(y.Props) || (x.Extra == nil) != (y.Extra == nil) {
			return false
		}
		if x.Extra != nil && !Equal(x.Extra, y.Extra) {
			return false
		}
		for i := range x.Props {
			px, py := x.Props[i], y.Props[i]
			if px.Name != py.Name || px.Optional != py.Optional || !Equal(px.Type, py.Type) {
				return false
			}
		}
		return true
	case *Union:
		return sameMembers(x.Members, b.(*Union).Members)
	case *Intersection:
		return sameMembers(x.Members, b.(*Intersection).Members)
	}
	return false
}

func sameMembers(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for _, m := range a {
		found := false
		for _, n := range b {
			if Equal(m, n) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
