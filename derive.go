package schematype

import (
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/reoring/schematype/jsonschema"
	"github.com/reoring/schematype/shape"
)

// noLow marks a derivation that did not reach any node still in progress.
const noLow = math.MaxInt

type memoKey struct {
	node *jsonschema.Schema
	fp   string
}

// frame is a node whose derivation is in progress. A reference that reaches
// an open frame gets the frame's Named handle instead of recursing.
type frame struct {
	id    int
	depth int
	node  *jsonschema.Schema
	table Table
	named *shape.Named
}

type memoEntry struct {
	t shape.Type
	// lowFrame is the id of the outermost frame the result refers back to,
	// or -1.
	lowFrame int
}

type deriver struct {
	opts   Options
	diag   *simpleDiag
	issues Issues
	seen   map[string]bool

	stack  []*frame
	active map[memoKey]*frame
	open   map[int]int // frame id -> depth
	memo   map[memoKey]memoEntry
	names  map[string]int
	nextID int
	stop   bool
}

func newDeriver(opts Options, diag *simpleDiag) *deriver {
	return &deriver{
		opts:   opts,
		diag:   diag,
		seen:   map[string]bool{},
		active: map[memoKey]*frame{},
		open:   map[int]int{},
		memo:   map[memoKey]memoEntry{},
		names:  map[string]int{},
	}
}

// derive returns the Derived Type of n evaluated against t, and the depth of
// the outermost open frame the result refers back to (noLow when none).
func (d *deriver) derive(n *jsonschema.Schema, t Table, p PathRef) (shape.Type, int) {
	if n == nil || d.stop {
		return shape.Any(), noLow
	}
	t = t.enter(n, t.scope())
	key := memoKey{node: n, fp: t.fp}
	if f, ok := d.active[key]; ok {
		if f.named == nil {
			name, ref := d.nameFor(f)
			f.named = shape.NewNamed(name, ref)
		}
		return f.named, f.depth
	}
	if m, ok := d.memo[key]; ok {
		if depth, ok := d.open[m.lowFrame]; ok {
			return m.t, depth
		}
		return m.t, noLow
	}

	f := &frame{id: d.nextID, depth: len(d.stack), node: n, table: t}
	d.nextID++
	d.stack = append(d.stack, f)
	d.active[key] = f
	d.open[f.id] = f.depth

	out, low := d.dispatch(n, t, p, f)

	d.stack = d.stack[:len(d.stack)-1]
	delete(d.active, key)
	delete(d.open, f.id)

	if f.named != nil {
		f.named.Bind(out)
		out = f.named
	}
	m := memoEntry{t: out, lowFrame: -1}
	if low < f.depth {
		m.lowFrame = d.stack[low].id
	} else {
		low = noLow
	}
	d.memo[key] = m
	return out, low
}

// dispatch applies the derivation rules in order; the first that matches
// wins.
func (d *deriver) dispatch(n *jsonschema.Schema, t Table, p PathRef, f *frame) (shape.Type, int) {
	if n.Boolean != nil {
		if *n.Boolean {
			return shape.Any(), noLow
		}
		return shape.Never(), noLow
	}
	if n.Ref != "" {
		target, rt, ok := t.Resolve(n.Ref)
		if !ok {
			d.unresolved(p, n.Ref, t)
			return shape.Any(), noLow
		}
		return d.derive(target, rt, refPath(n.Ref))
	}
	if n.HasConst() {
		return literal(n.Const), noLow
	}
	if n.Enum != nil {
		lits := make([]shape.Type, len(n.Enum))
		for i, v := range n.Enum {
			lits[i] = literal(v)
		}
		return shape.UnionOf(lits...), noLow
	}
	if name, ok := n.Type.Single(); ok {
		return d.typed(n, name, t, p, f)
	}
	if n.Type.IsList() {
		low := noLow
		members := make([]shape.Type, 0, len(n.Type.Names()))
		for _, name := range n.Type.Names() {
			m, l := d.typed(n, name, t, p, f)
			members = append(members, m)
			low = min(low, l)
		}
		return shape.UnionOf(members...), low
	}
	if n.AnyOf != nil {
		members, low := d.each(n.AnyOf, t, p.Field("anyOf"))
		return shape.InclusiveUnionOf(members...), low
	}
	if n.AllOf != nil {
		members, low := d.each(n.AllOf, t, p.Field("allOf"))
		return shape.IntersectAll(members...), low
	}
	if n.OneOf != nil {
		members, low := d.each(n.OneOf, t, p.Field("oneOf"))
		return shape.UnionOf(members...), low
	}
	return shape.Any(), noLow
}

// typed derives n as if its type keyword named only name.
func (d *deriver) typed(n *jsonschema.Schema, name string, t Table, p PathRef, f *frame) (shape.Type, int) {
	switch name {
	case jsonschema.TypeString:
		switch n.Format {
		case "date", "date-time":
			return shape.DateTime(n.Format), noLow
		case "binary":
			return shape.Binary(), noLow
		}
		return shape.String(), noLow
	case jsonschema.TypeNull:
		return shape.Null(), noLow
	case jsonschema.TypeBoolean:
		return shape.Boolean(), noLow
	case jsonschema.TypeInteger:
		return shape.Integer(), noLow
	case jsonschema.TypeNumber:
		return shape.Number(), noLow
	case jsonschema.TypeObject:
		return d.object(n, t, p, f)
	case jsonschema.TypeArray:
		return d.array(n, t, p)
	}
	return shape.Any(), noLow
}

func (d *deriver) array(n *jsonschema.Schema, t Table, p PathRef) (shape.Type, int) {
	it := n.Items
	if it == nil {
		return shape.ArrayOf(nil), noLow
	}
	ip := p.Field("items")
	if isBareOneOf(it) {
		// Each alternative becomes its own homogeneous array.
		it2 := t.enter(it, t.scope())
		low := noLow
		arrays := make([]shape.Type, 0, len(it.OneOf))
		for i, alt := range it.OneOf {
			m, l := d.derive(alt, it2, ip.Field("oneOf").Index(i))
			arrays = append(arrays, shape.ArrayOf(m))
			low = min(low, l)
		}
		return shape.UnionOf(arrays...), low
	}
	items, low := d.derive(it, t, ip)
	return shape.ArrayOf(items), low
}

func isBareOneOf(n *jsonschema.Schema) bool {
	return n.OneOf != nil && n.Boolean == nil && n.Ref == "" && n.Type.IsZero() &&
		!n.HasConst() && n.Enum == nil && n.AnyOf == nil && n.AllOf == nil
}

func (d *deriver) each(list []*jsonschema.Schema, t Table, p PathRef) ([]shape.Type, int) {
	low := noLow
	out := make([]shape.Type, 0, len(list))
	for i, alt := range list {
		m, l := d.derive(alt, t, p.Index(i))
		out = append(out, m)
		low = min(low, l)
	}
	return out, low
}

func literal(v any) shape.Type {
	if v == nil {
		return shape.Null()
	}
	return shape.LiteralOf(v)
}

// refPath is the location derivation continues at after following key.
func refPath(key string) PathRef {
	_, frag, _ := strings.Cut(key, "#")
	if strings.HasPrefix(frag, "/") {
		return At(frag)
	}
	return Root()
}

func (d *deriver) unresolved(p PathRef, key string, t Table) {
	it := p.Field("$ref").Issue(CodeUnresolvedRef, "cannot resolve $ref "+strconv.Quote(key),
		"ref", key, "document", t.scope())
	it.Hint = key
	d.report(it)
}

// malformed degrades a combinator the deriver cannot express to never, or
// reports it when Options.Strict is set.
func (d *deriver) malformed(p PathRef, format string, args ...any) (shape.Type, int) {
	msg := fmt.Sprintf(format, args...)
	if d.opts.Strict {
		d.report(IssueAt(p, CodeUnsupportedCombinator, msg, nil))
	} else {
		d.diag.warnf("%s: %s", p.Pointer(), msg)
		logger().Debug("degraded combinator to never", "path", p.Pointer(), "reason", msg)
	}
	return shape.Never(), noLow
}

func (d *deriver) report(it Issue) {
	k := it.Code + "\x00" + it.Path + "\x00" + it.Hint
	if d.seen[k] {
		return
	}
	d.seen[k] = true
	d.issues = AppendIssues(d.issues, it)
	if d.opts.FailFast {
		d.stop = true
	}
}

// nameFor picks a readable, unique name for a recursive handle: the
// definition name, the last segment of the $id, the title, or Root.
func (d *deriver) nameFor(f *frame) (string, string) {
	var base, ref string
	for i := len(f.table.entries) - 1; i >= 0; i-- {
		e := f.table.entries[i]
		if e.Node != f.node {
			continue
		}
		ref = e.String()
		if e.Def {
			base = e.Name
		} else if e.ID != "" {
			base = idName(e.ID)
		}
		break
	}
	if base == "" {
		base = f.node.Title
	}
	name := strcase.ToCamel(base)
	if name == "" {
		name = "Root"
		if f.depth > 0 {
			name = "Node"
		}
	}
	d.names[name]++
	if c := d.names[name]; c > 1 {
		name += strconv.Itoa(c)
	}
	return name, ref
}

func idName(id string) string {
	id, _, _ = strings.Cut(id, "#")
	id = strings.TrimRight(id, "/")
	base := path.Base(id)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "." || base == "/" {
		return ""
	}
	return base
}
