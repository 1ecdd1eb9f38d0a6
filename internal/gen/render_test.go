package gen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/reoring/schematype"
	"github.com/reoring/schematype/internal/gen"
	ir "github.com/reoring/schematype/internal/ir"
	"github.com/reoring/schematype/shape"
)

func deriveType(t *testing.T, src string) shape.Type {
	t.Helper()
	typ, _, err := st.DeriveJSON([]byte(src), st.Table{}, st.Options{})
	require.NoError(t, err)
	return typ
}

// squash collapses runs of whitespace so assertions do not depend on gofmt
// column alignment.
func squash(b []byte) string { return strings.Join(strings.Fields(string(b)), " ") }

func TestRenderTypes_Object(t *testing.T) {
	typ := deriveType(t, `{"$id":"user","type":"object","properties":{
		"name":{"type":"string"},
		"friend":{"$ref":"#"},
		"tags":{"type":"array","items":{"type":"string"}},
		"at":{"type":"string","format":"date-time"},
		"score":{"type":"integer","default":1},
		"blob":{"type":"string","format":"binary"},
		"meta":{"type":"object","additionalProperties":{"type":"number"}},
		"nick":{"type":["string","null"]}},
		"required":["name","friend"]}`)

	out, err := gen.RenderTypes("models", map[string]shape.Type{"user": typ})
	require.NoError(t, err)
	src := squash(out)

	for _, want := range []string{
		"// Code generated by schematype. DO NOT EDIT.",
		"package models",
		`import ( "time" )`,
		"type User struct {",
		"At *time.Time `json:\"at,omitempty\"`",
		"Blob []byte `json:\"blob,omitempty\"`",
		"Friend *User `json:\"friend,omitempty\"`",
		"Meta map[string]float64 `json:\"meta,omitempty\"`",
		"Name string `json:\"name\"`",
		"Nick *string `json:\"nick,omitempty\"`",
		"Score *int64 `json:\"score,omitempty\"` // default: 1",
		"Tags []string `json:\"tags,omitempty\"`",
	} {
		assert.Contains(t, src, want)
	}
}

func TestRenderTypes_MutualRecursion(t *testing.T) {
	typ := deriveType(t, `{"$ref":"#/$defs/A","$defs":{
		"A":{"type":"object","properties":{"b":{"$ref":"#/$defs/B"}}},
		"B":{"type":"object","properties":{"a":{"$ref":"#/$defs/A"}}}}}`)

	out, err := gen.RenderTypes("models", map[string]shape.Type{"thing": typ})
	require.NoError(t, err)
	src := squash(out)
	assert.Contains(t, src, "type Thing struct {")
	assert.Contains(t, src, "A *Thing `json:\"a,omitempty\"`")
	assert.NotContains(t, src, "import")
}

func TestLower_Leaves(t *testing.T) {
	decls := gen.Lower(map[string]shape.Type{
		"color":    deriveType(t, `{"enum":["red","green"]}`),
		"mixed":    deriveType(t, `{"oneOf":[{"type":"string"},{"type":"number"}]}`),
		"list":     deriveType(t, `{"type":"array","items":{"type":"boolean"}}`),
		"free":     deriveType(t, `{}`),
		"my-value": deriveType(t, `{"type":"number"}`),
	})
	byName := map[string]ir.Type{}
	for _, d := range decls {
		byName[d.Name] = d.Type
	}
	assert.Equal(t, &ir.Ident{Name: "string"}, byName["Color"])
	assert.Equal(t, &ir.Ident{Name: "any"}, byName["Mixed"])
	assert.Equal(t, &ir.Slice{Elem: &ir.Ident{Name: "bool"}}, byName["List"])
	assert.Equal(t, &ir.Ident{Name: "any"}, byName["Free"])
	assert.Equal(t, &ir.Ident{Name: "float64"}, byName["MyValue"])
}

func TestRenderFile_RequiresPackage(t *testing.T) {
	_, err := gen.RenderFile(gen.File{})
	assert.Error(t, err)
}

func TestRenderFile_Comments(t *testing.T) {
	out, err := gen.RenderFile(gen.File{Package: "p", Decls: []ir.Decl{
		{Name: "ID", Type: &ir.Ident{Name: "string"}, Comment: "string"},
	}})
	require.NoError(t, err)
	assert.Contains(t, squash(out), "// string type ID string")
}
