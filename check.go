package schematype

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/reoring/schematype/shape"
)

var (
	timeType  = reflect.TypeOf(time.Time{})
	bytesType = reflect.TypeOf([]byte(nil))
)

// Check reports how v fails to be assignable to t, or nil when it is.
//
// v is a JSON-like Go value: nil, bool, any numeric kind or json.Number,
// string, slices and arrays, and maps with string keys. Pointers are
// followed. time.Time is the date/time value and []byte the binary value.
// Objects are open: undeclared keys are accepted unless the object carries
// an extra-entry type.
func Check(t shape.Type, v any) error {
	c := &checker{guard: map[guardKey]bool{}}
	if iss := c.check(t, reflect.ValueOf(v), Root()); len(iss) > 0 {
		return iss
	}
	return nil
}

// Conforms reports whether v is assignable to t.
func Conforms(t shape.Type, v any) bool { return Check(t, v) == nil }

// CheckJSON decodes a JSON instance, keeping numbers exact, and checks it
// against t.
func CheckJSON(t shape.Type, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return Check(t, v)
}

type guardKey struct {
	n    *shape.Named
	path string
}

type checker struct {
	// guard holds the handles entered at each value position. Re-entering
	// one without descending into the value means the type never reaches a
	// concrete shape there.
	guard map[guardKey]bool
}

func (c *checker) check(t shape.Type, v reflect.Value, p PathRef) Issues {
	v = indirect(v)
	switch x := t.(type) {
	case nil:
		return nil
	case *shape.Named:
		k := guardKey{x, p.Pointer()}
		if c.guard[k] {
			return Issues{p.Issue(CodeInvalidType, "recursive type "+x.Name+" has no concrete shape", "expected", x.Name)}
		}
		if x.Target() == nil {
			return nil
		}
		c.guard[k] = true
		defer delete(c.guard, k)
		return c.check(x.Target(), v, p)
	case *shape.Union:
		for _, m := range x.Members {
			if len(c.check(m, v, p)) == 0 {
				return nil
			}
		}
		return Issues{p.Issue(CodeNoMatch, "value matches no member of "+x.String(), "expected", x.String())}
	case *shape.Intersection:
		var iss Issues
		for _, m := range x.Members {
			iss = append(iss, c.check(m, v, p)...)
		}
		return iss
	case *shape.Literal:
		return c.literal(x, v, p)
	case *shape.Array:
		return c.array(x, v, p)
	case *shape.Object:
		return c.object(x, v, p)
	case *shape.Primitive:
		return c.primitive(x, v, p)
	}
	return Issues{p.Issue(CodeInvalidType, fmt.Sprintf("unsupported type %T", t))}
}

func (c *checker) primitive(t *shape.Primitive, v reflect.Value, p PathRef) Issues {
	var ok bool
	switch t.Kind() {
	case shape.KindAny:
		return nil
	case shape.KindNever:
		ok = false
	case shape.KindNull:
		ok = !v.IsValid()
	case shape.KindBoolean:
		ok = v.IsValid() && v.Kind() == reflect.Bool
	case shape.KindNumber:
		ok = isNumber(v)
	case shape.KindString:
		ok = v.IsValid() && v.Kind() == reflect.String && v.Type() != reflect.TypeOf(json.Number(""))
	case shape.KindDateTime:
		ok = v.IsValid() && v.Type() == timeType
	case shape.KindBinary:
		ok = isBytes(v)
	}
	if ok {
		return nil
	}
	return Issues{invalidType(p, t.String(), v)}
}

func (c *checker) literal(t *shape.Literal, v reflect.Value, p PathRef) Issues {
	got := plain(v)
	if shape.LiteralKind(got) == shape.LiteralKind(t.Value) && shape.LiteralEqual(got, t.Value) {
		return nil
	}
	return Issues{p.Issue(CodeInvalidLiteral, "expected "+t.String(), "expected", t.Value)}
}

func (c *checker) array(t *shape.Array, v reflect.Value, p PathRef) Issues {
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || isBytes(v) {
		return Issues{invalidType(p, "array", v)}
	}
	var iss Issues
	for i := 0; i < v.Len(); i++ {
		iss = append(iss, c.check(t.Items, v.Index(i), p.Index(i))...)
	}
	return iss
}

func (c *checker) object(t *shape.Object, v reflect.Value, p PathRef) Issues {
	if !v.IsValid() || v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return Issues{invalidType(p, "object", v)}
	}
	var iss Issues
	for _, prop := range t.Props {
		mv := v.MapIndex(reflect.ValueOf(prop.Name).Convert(v.Type().Key()))
		if !mv.IsValid() {
			if !prop.Optional {
				iss = append(iss, IssueAt(p.Field(prop.Name), CodeRequired, "required property "+prop.Name+" is missing",
					map[string]any{"property": prop.Name}))
			}
			continue
		}
		iss = append(iss, c.check(prop.Type, mv, p.Field(prop.Name))...)
	}
	if t.Extra != nil {
		for _, k := range sortedMapKeys(v) {
			if _, declared := t.Prop(k.String()); declared {
				continue
			}
			iss = append(iss, c.check(t.Extra, v.MapIndex(k), p.Field(k.String()))...)
		}
	}
	return iss
}

func invalidType(p PathRef, expected string, v reflect.Value) Issue {
	got := "null"
	if v.IsValid() {
		got = v.Type().String()
	}
	return p.Issue(CodeInvalidType, "expected "+expected+", got "+got, "expected", expected, "got", got)
}

// indirect follows pointers and interfaces. A nil pointer or interface
// becomes the invalid Value, which stands for null.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNumber(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	if v.Type() == reflect.TypeOf(json.Number("")) {
		return true
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isBytes(v reflect.Value) bool {
	return v.IsValid() && v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 &&
		(v.Type() == bytesType || v.Type().ConvertibleTo(bytesType))
}

// plain converts v into the JSON-like form literals are held in.
func plain(v reflect.Value) any {
	v = indirect(v)
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		out := make(map[string]any, v.Len())
		for _, k := range sortedMapKeys(v) {
			out[k.String()] = plain(v.MapIndex(k))
		}
		return out
	case reflect.Slice, reflect.Array:
		if isBytes(v) {
			return v.Interface()
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = plain(v.Index(i))
		}
		return out
	case reflect.String:
		if v.Type() == reflect.TypeOf(json.Number("")) {
			return v.Interface()
		}
		return v.String()
	}
	return v.Interface()
}

func sortedMapKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
