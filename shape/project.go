package shape

// Strict replaces every date/time and binary leaf with string: the wire
// form of a value after encoding.
func Strict(t Type) Type {
	return Map(t, func(leaf Type) Type {
		switch leaf.Kind() {
		case KindDateTime, KindBinary:
			return stringType
		}
		return leaf
	})
}

// Weak widens every date/time and binary leaf to "rich or string": a value
// accepted for encoding that may already be partly serialized.
func Weak(t Type) Type {
	return Map(t, func(leaf Type) Type {
		switch leaf.Kind() {
		case KindDateTime, KindBinary:
			return &Union{Members: []Type{leaf, stringType}}
		}
		return leaf
	})
}

// Map rebuilds t bottom-up, replacing every leaf (primitive or literal) with
// leaf(t). Composite structure, property optionality and recursive handles
// are preserved; each Named handle is mapped once into a fresh handle.
func Map(t Type, leaf func(Type) Type) Type {
	m := &mapper{leaf: leaf, named: map[*Named]*Named{}}
	return m.apply(t)
}

type mapper struct {
	leaf  func(Type) Type
	named map[*Named]*Named
}

func (m *mapper) apply(t Type) Type {
	switch x := t.(type) {
	case nil:
		return nil
	case *Primitive, *Literal:
		return m.leaf(t)
	case *Array:
		return &Array{Items: m.apply(x.Items)}
	case *Object:
		props := make([]Prop, len(x.Props))
		for i, p := range x.Props {
			p.Type = m.apply(p.Type)
			props[i] = p
		}
		return &Object{Props: props, Extra: m.apply(x.Extra)}
	case *Union:
		members := make([]Type, 0, len(x.Members))
		for _, mt := range x.Members {
			members = append(members, m.apply(mt))
		}
		return unionOf(x.Inclusive, members)
	case *Intersection:
		members := make([]Type, len(x.Members))
		for i, mt := range x.Members {
			members[i] = m.apply(mt)
		}
		return &Intersection{Members: members}
	case *Named:
		if n, ok := m.named[x]; ok {
			return n
		}
		n := &Named{Name: x.Name, Ref: x.Ref}
		m.named[x] = n
		if x.target != nil {
			n.target = m.apply(x.target)
		}
		return n
	}
	return t
}
