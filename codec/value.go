package codec

import (
	"context"
	"reflect"
	"time"

	st "github.com/reoring/schematype"
	"github.com/reoring/schematype/shape"
)

// Encode converts the rich leaves of v into their wire strings as directed by
// t: date/time leaves take time.Time, binary leaves take []byte. Leaves that
// already hold a string are kept, so any value assignable to shape.Weak(t)
// is accepted and the result is assignable to shape.Strict(t).
//
// Only leaves are converted. Structure that does not match t is copied
// through unchanged; use schematype.Check to validate it.
func Encode(ctx context.Context, t shape.Type, v any) (any, error) {
	return run(ctx, t, v, true)
}

// Decode is the inverse of Encode: wire strings at date/time and binary
// leaves become time.Time and []byte.
func Decode(ctx context.Context, t shape.Type, wire any) (any, error) {
	return run(ctx, t, wire, false)
}

func run(ctx context.Context, t shape.Type, v any, encode bool) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := &walker{ctx: ctx, encode: encode, guard: map[guardKey]bool{}}
	out := w.walk(t, v, st.Root())
	if len(w.issues) > 0 {
		return nil, w.issues
	}
	return out, nil
}

type guardKey struct {
	n    *shape.Named
	path string
}

type walker struct {
	ctx    context.Context
	encode bool
	guard  map[guardKey]bool
	issues st.Issues
}

func (w *walker) walk(t shape.Type, v any, p st.PathRef) any {
	switch x := t.(type) {
	case *shape.Named:
		k := guardKey{x, p.Pointer()}
		if w.guard[k] || x.Target() == nil {
			return v
		}
		w.guard[k] = true
		defer delete(w.guard, k)
		return w.walk(x.Target(), v, p)
	case *shape.Primitive:
		switch x.Kind() {
		case shape.KindDateTime:
			return w.dateTime(x, v, p)
		case shape.KindBinary:
			return w.binary(v, p)
		}
		return v
	case *shape.Array:
		rv := reflect.ValueOf(v)
		if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return v
		}
		if _, raw := v.([]byte); raw {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = w.walk(x.Items, rv.Index(i).Interface(), p.Index(i))
		}
		return out
	case *shape.Object:
		rv := reflect.ValueOf(v)
		if v == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			mt := x.Extra
			if prop, ok := x.Prop(k); ok {
				mt = prop.Type
			}
			val := iter.Value().Interface()
			if mt == nil {
				out[k] = val
				continue
			}
			out[k] = w.walk(mt, val, p.Field(k))
		}
		return out
	case *shape.Union:
		for _, m := range x.Members {
			if st.Conforms(shape.Weak(m), v) {
				return w.walk(m, v, p)
			}
		}
		return v
	case *shape.Intersection:
		for _, m := range x.Members {
			v = w.walk(m, v, p)
		}
		return v
	}
	return v
}

func (w *walker) dateTime(t *shape.Primitive, v any, p st.PathRef) any {
	leaf := TimeRFC3339()
	if t.Format == "date" {
		leaf = Date()
	}
	switch x := v.(type) {
	case time.Time:
		if !w.encode {
			return x
		}
		s, err := leaf.Encode(w.ctx, x)
		return w.leafResult(s, err, p)
	case *time.Time:
		if x == nil {
			break
		}
		return w.dateTime(t, *x, p)
	case string:
		tm, err := leaf.Decode(w.ctx, x)
		if w.encode {
			// Already on the wire; only its syntax is checked.
			w.leafResult(tm, err, p)
			return x
		}
		return w.leafResult(tm, err, p)
	}
	w.issues = append(w.issues, p.Issue(st.CodeInvalidType, "expected time.Time or string", "expected", t.String()))
	return v
}

func (w *walker) binary(v any, p st.PathRef) any {
	leaf := Base64()
	switch x := v.(type) {
	case []byte:
		if !w.encode {
			return x
		}
		s, err := leaf.Encode(w.ctx, x)
		return w.leafResult(s, err, p)
	case string:
		if w.encode {
			return x
		}
		b, err := leaf.Decode(w.ctx, x)
		return w.leafResult(b, err, p)
	}
	w.issues = append(w.issues, p.Issue(st.CodeInvalidType, "expected []byte or string", "expected", "Binary"))
	return v
}

// leafResult rebases a leaf's issues onto the current path.
func (w *walker) leafResult(v any, err error, p st.PathRef) any {
	if err == nil {
		return v
	}
	if iss, ok := st.AsIssues(err); ok {
		for _, it := range iss {
			it.Path = p.Pointer()
			w.issues = append(w.issues, it)
		}
		return nil
	}
	w.issues = append(w.issues, st.Issue{Path: p.Pointer(), Code: st.CodeInvalidFormat, Message: err.Error(), Cause: err})
	return nil
}
