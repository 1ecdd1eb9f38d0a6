package jsonschema

import (
	"sort"
	"strconv"
	"strings"
)

// Lookup resolves a JSON Pointer (RFC 6901) such as "/properties/a/items"
// against s. Only keywords that hold sub-schemas can be traversed.
func (s *Schema) Lookup(pointer string) (*Schema, bool) {
	if pointer == "" || pointer == "/" {
		return s, s != nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}
	segs := strings.Split(pointer[1:], "/")
	cur := s
	for i := 0; i < len(segs); i++ {
		if cur == nil {
			return nil, false
		}
		seg := unescapePointer(segs[i])
		switch seg {
		case "items":
			cur = cur.Items
			continue
		case "additionalProperties":
			cur = cur.AdditionalProperties
			continue
		}
		if i+1 >= len(segs) {
			return nil, false
		}
		arg := unescapePointer(segs[i+1])
		i++
		switch seg {
		case "properties":
			cur = cur.Properties[arg]
		case "$defs":
			cur = cur.Defs[arg]
		case "definitions":
			cur = cur.Definitions[arg]
		case "anyOf":
			cur = indexSchema(cur.AnyOf, arg)
		case "oneOf":
			cur = indexSchema(cur.OneOf, arg)
		case "allOf":
			cur = indexSchema(cur.AllOf, arg)
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

func indexSchema(list []*Schema, idx string) *Schema {
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 || n >= len(list) {
		return nil
	}
	return list[n]
}

func unescapePointer(s string) string {
	if !strings.Contains(s, "~") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// EscapePointer escapes a single reference token per RFC 6901.
func EscapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// Walk visits s and every sub-schema below it in document order, passing the
// JSON Pointer of each node relative to s. Map keywords are visited in key
// order. Returning false from fn skips the children of that node.
func (s *Schema) Walk(fn func(pointer string, n *Schema) bool) {
	var walk func(ptr string, n *Schema)
	walk = func(ptr string, n *Schema) {
		if n == nil || !fn(ptr, n) {
			return
		}
		for _, k := range sortedKeys(n.Properties) {
			walk(ptr+"/properties/"+EscapePointer(k), n.Properties[k])
		}
		walk(ptr+"/additionalProperties", n.AdditionalProperties)
		walk(ptr+"/items", n.Items)
		for _, k := range sortedKeys(n.Defs) {
			walk(ptr+"/$defs/"+EscapePointer(k), n.Defs[k])
		}
		for _, k := range sortedKeys(n.Definitions) {
			walk(ptr+"/definitions/"+EscapePointer(k), n.Definitions[k])
		}
		for i, sub := range n.AnyOf {
			walk(ptr+"/anyOf/"+strconv.Itoa(i), sub)
		}
		for i, sub := range n.OneOf {
			walk(ptr+"/oneOf/"+strconv.Itoa(i), sub)
		}
		for i, sub := range n.AllOf {
			walk(ptr+"/allOf/"+strconv.Itoa(i), sub)
		}
	}
	walk("", s)
}

func sortedKeys(m map[string]*Schema) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
