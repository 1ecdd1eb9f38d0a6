package schematype

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/schematype/jsonschema"
)

// Entry is one named Schema Node in a Table.
type Entry struct {
	// ID is the resource's $id, or for a definition the id of the resource
	// that declares it.
	ID string
	// Name is the member name under $defs/definitions. Empty for resources.
	Name string
	// Def distinguishes definitions from resources.
	Def  bool
	Node *jsonschema.Schema
}

func (e Entry) same(o Entry) bool {
	return e.ID == o.ID && e.Name == o.Name && e.Def == o.Def && e.Node == o.Node
}

func (e Entry) String() string {
	if e.Def {
		return e.ID + "#/$defs/" + jsonschema.EscapePointer(e.Name)
	}
	if e.ID == "" {
		return "#"
	}
	return e.ID
}

// Table is the ordered, read-only set of Schema Nodes visible to $ref
// resolution. Later entries shadow earlier ones. Every operation returning a
// Table leaves the receiver untouched, so a Table can be copied and shared
// freely.
type Table struct {
	entries []Entry
	fp      string
}

// NewTable returns a table holding the given documents as external
// resources. Each document contributes itself, every nested node that
// declares its own $id, and the $defs/definitions of those resources.
func NewTable(docs ...*jsonschema.Schema) Table {
	var t Table
	for _, doc := range docs {
		t = t.addDocument(doc)
	}
	return t
}

func (t Table) addDocument(doc *jsonschema.Schema) Table {
	if doc == nil {
		return t
	}
	doc.Walk(func(_ string, n *jsonschema.Schema) bool {
		if n != doc && n.ID != "" {
			t = t.addDocument(n)
			return false
		}
		if n == doc {
			t = t.push(Entry{ID: n.ID, Node: n}).enter(n, n.ID)
		}
		return true
	})
	return t
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.entries) }

// Entries returns a copy of the entries, outermost first.
func (t Table) Entries() []Entry { return append([]Entry(nil), t.entries...) }

// Fingerprint identifies the effective resolution behaviour of t: two tables
// with the same fingerprint resolve every key to the same node.
func (t Table) Fingerprint() string { return t.fp }

// With returns t extended by other's entries, which shadow t's.
func (t Table) With(other Table) Table {
	for _, e := range other.entries {
		t = t.push(e)
	}
	return t
}

// push appends e as the innermost entry. An entry identical to an existing
// one is moved instead of duplicated.
func (t Table) push(e Entry) Table {
	out := make([]Entry, 0, len(t.entries)+1)
	for _, x := range t.entries {
		if !x.same(e) {
			out = append(out, x)
		}
	}
	out = append(out, e)
	return Table{entries: out, fp: fingerprint(out)}
}

// enter folds n into the table before its children are derived: n itself
// when it declares an $id, then its local definitions scoped to the
// innermost resource.
func (t Table) enter(n *jsonschema.Schema, scope string) Table {
	if n.ID != "" {
		t = t.push(Entry{ID: n.ID, Node: n})
		scope = n.ID
	}
	defs := n.LocalDefs()
	if len(defs) == 0 {
		return t
	}
	names := make([]string, 0, len(defs))
	for k := range defs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		t = t.push(Entry{ID: scope, Name: name, Def: true, Node: defs[name]})
	}
	return t
}

// Enter is the exported form of the per-node fold performed during
// derivation. It is useful to inspect what a node contributes.
func (t Table) Enter(n *jsonschema.Schema) Table {
	if n == nil {
		return t
	}
	return t.enter(n, t.scope())
}

// scope returns the id of the innermost resource.
func (t Table) scope() string {
	if r, ok := t.resource(); ok {
		return r.ID
	}
	return ""
}

func (t Table) resource() (Entry, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if !t.entries[i].Def {
			return t.entries[i], true
		}
	}
	return Entry{}, false
}

func (t Table) resourceByID(id string) (Entry, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if e := t.entries[i]; !e.Def && e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (t Table) def(scope, name string, anyScope bool) (Entry, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if e.Def && e.Name == name && (anyScope || e.ID == scope) {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve looks key up and returns the target node together with the table
// to derive it against: t with the target's resource moved innermost, so
// that "#" inside the target means the document that holds it.
//
// Key forms:
//
//	"#", ""                  the innermost resource
//	"<id>"                   the resource with that $id, else the definition named <id>
//	"<id>#/$defs/<name>"     a definition declared by resource <id> ("" = innermost)
//	"<id>#/definitions/<n>"  same, draft-07 spelling
//	"<id>#<pointer>"         any sub-node of resource <id> by JSON Pointer
//	"<id>#<name>"            the definition named <name>
func (t Table) Resolve(key string) (*jsonschema.Schema, Table, bool) {
	base, frag, hasFrag := strings.Cut(key, "#")
	if !hasFrag {
		if base == "" {
			r, ok := t.resource()
			return r.Node, t, ok
		}
		if r, ok := t.resourceByID(base); ok {
			return r.Node, t.push(r), true
		}
		if d, ok := t.def("", base, true); ok {
			return d.Node, t.promote(d.ID), true
		}
		return nil, t, false
	}

	var r Entry
	var ok bool
	if base == "" {
		r, ok = t.resource()
	} else {
		r, ok = t.resourceByID(base)
	}
	if !ok {
		return nil, t, false
	}
	rt := t.push(r)
	if frag == "" {
		return r.Node, rt, true
	}
	if !strings.HasPrefix(frag, "/") {
		if d, ok := t.def(r.ID, frag, false); ok {
			return d.Node, rt, true
		}
		return nil, t, false
	}
	for _, kw := range []string{"/$defs/", "/definitions/"} {
		if name, ok := strings.CutPrefix(frag, kw); ok && !strings.Contains(name, "/") {
			if d, ok := t.def(r.ID, unescape(name), false); ok {
				return d.Node, rt, true
			}
		}
	}
	if n, ok := r.Node.Lookup(frag); ok {
		return n, rt, true
	}
	return nil, t, false
}

// promote moves the resource with id innermost, when present.
func (t Table) promote(id string) Table {
	if r, ok := t.resourceByID(id); ok {
		return t.push(r)
	}
	return t
}

func unescape(tok string) string {
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
}

// fingerprint renders the winner of every resolvable key. Shadowed entries
// do not contribute, so reordering that cannot change a lookup keeps the
// fingerprint stable.
func fingerprint(entries []Entry) string {
	win := map[string]*jsonschema.Schema{}
	claim := func(k string, n *jsonschema.Schema) {
		if _, ok := win[k]; !ok {
			win[k] = n
		}
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Def {
			claim("d\x00"+e.ID+"\x00"+e.Name, e.Node)
			claim("n\x00"+e.Name, e.Node)
			continue
		}
		claim("#", e.Node)
		claim("r\x00"+e.ID, e.Node)
	}
	keys := make([]string, 0, len(win))
	for k := range win {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := &strings.Builder{}
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%p;", k, win[k])
	}
	return b.String()
}
