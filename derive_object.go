package schematype

import (
	"sort"

	"github.com/reoring/schematype/jsonschema"
	"github.com/reoring/schematype/shape"
)

// object derives a node typed "object".
func (d *deriver) object(n *jsonschema.Schema, t Table, p PathRef, f *frame) (shape.Type, int) {
	extra, low := d.extra(n, t, p)

	if n.Properties == nil {
		if n.AnyOf != nil {
			return d.malformed(p.Field("anyOf"), "anyOf on an object without properties")
		}
		var out shape.Type = shape.NewObject(nil, extra)
		out, low = d.combine(out, low, n, t, p)
		return out, low
	}

	names := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		names = append(names, k)
	}
	sort.Strings(names)

	props := make([]shape.Prop, 0, len(names))
	for _, name := range names {
		child := n.Properties[name]
		pt, l := d.derive(child, t, p.Field("properties").Field(name))
		low = min(low, l)
		optional := !n.IsRequired(name)
		if !optional && d.opts.Recursion == RecursionOptional && l <= f.depth && d.closesContainerCycle(child, t) {
			optional = true
		}
		if d.opts.Mode == ModeResponse && child.HasDefault() {
			optional = false
		}
		prop := shape.Prop{Name: name, Type: pt, Optional: optional}
		if child.HasDefault() {
			prop.Default, prop.HasDefault = child.Default, true
		}
		props = append(props, prop)
	}
	base := shape.NewObject(props, extra)

	var out shape.Type = base
	if n.AnyOf != nil {
		variants := make([]shape.Type, 0, len(n.AnyOf))
		for i, alt := range n.AnyOf {
			var req []string
			if alt != nil {
				req = alt.Required
			}
			for _, r := range req {
				if _, ok := n.Properties[r]; !ok {
					return d.malformed(p.Field("anyOf").Index(i), "anyOf branch requires undeclared property %q", r)
				}
			}
			variants = append(variants, withRequired(base, req))
		}
		out = shape.InclusiveUnionOf(variants...)
	}
	return d.combine(out, low, n, t, p)
}

// extra derives the type of undeclared entries. false and absent both leave
// extra entries unconstrained.
func (d *deriver) extra(n *jsonschema.Schema, t Table, p PathRef) (shape.Type, int) {
	ap := n.AdditionalProperties
	if ap == nil {
		return nil, noLow
	}
	if ap.Boolean != nil {
		if *ap.Boolean {
			return shape.Any(), noLow
		}
		return nil, noLow
	}
	return d.derive(ap, t, p.Field("additionalProperties"))
}

// combine intersects allOf and then oneOf onto an object shape.
func (d *deriver) combine(out shape.Type, low int, n *jsonschema.Schema, t Table, p PathRef) (shape.Type, int) {
	if n.AllOf != nil {
		parts, l := d.each(n.AllOf, t, p.Field("allOf"))
		out = shape.Intersect(out, shape.IntersectAll(parts...))
		low = min(low, l)
	}
	if n.OneOf != nil {
		parts, l := d.each(n.OneOf, t, p.Field("oneOf"))
		out = shape.Intersect(out, shape.UnionOf(parts...))
		low = min(low, l)
	}
	return out, low
}

// closesContainerCycle reports whether a property schema is a $ref, possibly
// through a chain of $ref-only aliases, to an object or array typed node. The
// caller has already established that the reference leads back into an open
// frame.
func (d *deriver) closesContainerCycle(child *jsonschema.Schema, t Table) bool {
	if child == nil || child.Ref == "" {
		return false
	}
	seen := map[*jsonschema.Schema]bool{}
	n := child
	for n.Ref != "" && n.Boolean == nil {
		if seen[n] {
			return false
		}
		seen[n] = true
		target, rt, ok := t.Enter(n).Resolve(n.Ref)
		if !ok || target == nil {
			return false
		}
		n, t = target, rt
	}
	return n.DeclaresType(jsonschema.TypeObject, jsonschema.TypeArray)
}

func withRequired(base *shape.Object, names []string) shape.Type {
	if len(names) == 0 {
		return base
	}
	props := append([]shape.Prop(nil), base.Props...)
	for i := range props {
		for _, r := range names {
			if props[i].Name == r {
				props[i].Optional = false
			}
		}
	}
	return shape.NewObject(props, base.Extra)
}
