package schematype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/reoring/schematype"
	js "github.com/reoring/schematype/jsonschema"
)

func TestTable_Resolve(t *testing.T) {
	doc := js.MustParse(`{"$id":"doc",
		"properties":{"x":{"type":"string"}},
		"$defs":{"y":{"type":"number"},"a/b":{"type":"boolean"}},
		"definitions":{"old":{"type":"null"}}}`)
	table := st.NewTable(doc)
	assert.Equal(t, 4, table.Len())

	cases := []struct {
		key  string
		want *js.Schema
	}{
		{"doc", doc},
		{"doc#", doc},
		{"doc#/properties/x", doc.Properties["x"]},
		{"doc#/$defs/y", doc.Defs["y"]},
		{"doc#/$defs/a~1b", doc.Defs["a/b"]},
		{"doc#/definitions/old", doc.Definitions["old"]},
		{"doc#y", doc.Defs["y"]},
		{"y", doc.Defs["y"]},
		{"#", doc},
		{"#/$defs/y", doc.Defs["y"]},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			got, rt, ok := table.Resolve(c.key)
			require.True(t, ok)
			assert.Same(t, c.want, got)
			assert.Equal(t, table.Fingerprint(), rt.Fingerprint())
		})
	}

	for _, key := range []string{"missing", "doc#/properties/none", "doc#none", "other#/$defs/y"} {
		_, _, ok := table.Resolve(key)
		assert.False(t, ok, key)
	}

	_, _, ok := st.Table{}.Resolve("#")
	assert.False(t, ok)
}

func TestTable_NestedResources(t *testing.T) {
	doc := js.MustParse(`{"$id":"outer","properties":{
		"inner":{"$id":"inner","$defs":{"z":{"type":"boolean"}}}}}`)
	table := st.NewTable(doc)

	got, _, ok := table.Resolve("inner#/$defs/z")
	require.True(t, ok)
	assert.Same(t, doc.Properties["inner"].Defs["z"], got)

	_, _, ok = table.Resolve("outer#/$defs/z")
	assert.False(t, ok)
}

func TestTable_ShadowingAndFingerprint(t *testing.T) {
	a := js.MustParse(`{"$id":"a","$defs":{"v":{"type":"string"}}}`)
	b := js.MustParse(`{"$id":"b","$defs":{"v":{"type":"number"}}}`)

	ab := st.NewTable(a, b)
	got, _, ok := ab.Resolve("v")
	require.True(t, ok)
	assert.Same(t, b.Defs["v"], got)

	ba := st.NewTable(b, a)
	got, _, ok = ba.Resolve("v")
	require.True(t, ok)
	assert.Same(t, a.Defs["v"], got)
	assert.NotEqual(t, ab.Fingerprint(), ba.Fingerprint())

	// Re-adding a document that is already present changes nothing a
	// lookup can observe.
	again := st.NewTable(a).With(st.NewTable(a))
	assert.Equal(t, st.NewTable(a).Fingerprint(), again.Fingerprint())
	assert.Equal(t, 2, again.Len())
}

func TestTable_EnterAndEntries(t *testing.T) {
	node := js.MustParse(`{"$defs":{"q":{"type":"string"}},"definitions":{"p":{"type":"number"}}}`)
	before := st.NewTable()
	after := before.Enter(node)

	assert.Equal(t, 0, before.Len())
	entries := after.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "p", entries[0].Name)
	assert.Equal(t, "#/$defs/q", entries[1].String())
	assert.True(t, entries[1].Def)
}
