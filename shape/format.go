package shape

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// The textual notation follows the usual structural-type spelling:
// `{ a: string; b?: number[] }`, `"x" | null`, `Node`.

func (p *Primitive) String() string {
	switch p.kind {
	case KindDateTime:
		if p.Format == "date" {
			return "Date(date)"
		}
		return "Date"
	case KindBinary:
		return "Binary"
	}
	return p.kind.String()
}

func (l *Literal) String() string {
	b, err := json.Marshal(l.Value)
	if err != nil {
		return "literal"
	}
	return string(b)
}

func (a *Array) String() string {
	s := a.Items.String()
	switch a.Items.Kind() {
	case KindUnion, KindIntersection:
		s = "(" + s + ")"
	}
	return s + "[]"
}

func (o *Object) String() string {
	if len(o.Props) == 0 && o.Extra == nil {
		return "{}"
	}
	b := &strings.Builder{}
	b.WriteString("{ ")
	for i, p := range o.Props {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(propName(p.Name))
		if p.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	if o.Extra != nil {
		if len(o.Props) > 0 {
			b.WriteString("; ")
		}
		b.WriteString("[key: string]: ")
		b.WriteString(o.Extra.String())
	}
	b.WriteString(" }")
	return b.String()
}

func propName(name string) string {
	if name == "" {
		return `""`
	}
	for i, r := range name {
		ok := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			return strconv.Quote(name)
		}
	}
	return name
}

func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

func (x *Intersection) String() string {
	parts := make([]string, len(x.Members))
	for i, m := range x.Members {
		s := m.String()
		if m.Kind() == KindUnion {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " & ")
}

func (n *Named) String() string { return n.Name }

// Format renders t together with a declaration for every Named handle it
// reaches, one per line, followed by t itself.
func Format(t Type) string {
	named := NamedIn(t)
	if len(named) == 0 {
		return t.String()
	}
	b := &strings.Builder{}
	for _, n := range named {
		b.WriteString("type ")
		b.WriteString(n.Name)
		b.WriteString(" = ")
		if n.target == nil {
			b.WriteString("any")
		} else {
			b.WriteString(n.target.String())
		}
		b.WriteByte('\n')
	}
	b.WriteString(t.String())
	return b.String()
}
