package jsonschema_test

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	js "github.com/reoring/schematype/jsonschema"
)

func TestParse_Keywords(t *testing.T) {
	s, err := js.Parse([]byte(`{
		"$id": "user",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"tags": {"type": "array", "items": {"type": ["string", "null"]}},
			"born": {"type": "string", "format": "date"}
		},
		"required": ["name"],
		"additionalProperties": false,
		"$defs": {"id": {"type": "integer"}},
		"definitions": {"legacy": true}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "user", s.ID)
	name, ok := s.Type.Single()
	require.True(t, ok)
	assert.Equal(t, js.TypeObject, name)
	assert.True(t, s.IsRequired("name"))
	assert.False(t, s.IsRequired("tags"))

	items := s.Properties["tags"].Items
	assert.True(t, items.Type.IsList())
	assert.Equal(t, []string{"string", "null"}, items.Type.Names())

	require.NotNil(t, s.AdditionalProperties.Boolean)
	assert.False(t, *s.AdditionalProperties.Boolean)

	defs := s.LocalDefs()
	assert.Len(t, defs, 2)
	require.NotNil(t, defs["legacy"].Boolean)
	assert.True(t, *defs["legacy"].Boolean)
}

func TestParse_ConstAndDefaultPresence(t *testing.T) {
	s := js.MustParse(`{"properties": {"a": {"const": null}, "b": {"default": null}, "c": {}}}`)
	assert.True(t, s.Properties["a"].HasConst())
	assert.Nil(t, s.Properties["a"].Const)
	assert.True(t, s.Properties["b"].HasDefault())
	assert.False(t, s.Properties["c"].HasConst())
	assert.False(t, s.Properties["c"].HasDefault())
}

func TestParse_NumbersStayExact(t *testing.T) {
	s := js.MustParse(`{"enum": [1, 12345678901234567890, 2.5], "const": 7}`)
	assert.Equal(t, json.Number("12345678901234567890"), s.Enum[1])
	assert.Equal(t, json.Number("7"), s.Const)
}

func TestParse_RejectsDuplicateKeys(t *testing.T) {
	_, err := js.Parse([]byte(`{"properties": {"a": {"type": "string", "type": "number"}}}`))
	var dup *js.DuplicateKeyError
	require.True(t, errors.As(err, &dup), "err=%v", err)
	assert.Equal(t, "type", dup.Key)
	assert.Equal(t, "/properties/a", dup.Path)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := js.Parse([]byte(`{"type": `))
	require.Error(t, err)
	_, err = js.Parse([]byte(`[1, 2]`))
	require.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	src := `{"$id":"x","type":["string","null"],"const":null,"anyOf":[true,{"$ref":"#"}]}`
	s := js.MustParse(src)
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(b))
}

func TestTypeSet(t *testing.T) {
	assert.True(t, js.TypeSet{}.IsZero())
	single := js.Type("string")
	b, err := json.Marshal(single)
	require.NoError(t, err)
	assert.Equal(t, `"string"`, string(b))

	list := js.Types("string")
	_, ok := list.Single()
	assert.False(t, ok, "array form is kept even with one member")
	b, err = json.Marshal(list)
	require.NoError(t, err)
	assert.Equal(t, `["string"]`, string(b))
}

func TestLookup(t *testing.T) {
	s := js.MustParse(`{
		"properties": {"a/b": {"items": {"anyOf": [{"type": "string"}, {"type": "number"}]}}},
		"$defs": {"d": {"additionalProperties": {"type": "boolean"}}}
	}`)
	n, ok := s.Lookup("/properties/a~1b/items/anyOf/1")
	require.True(t, ok)
	assert.True(t, n.DeclaresType("number"))

	n, ok = s.Lookup("/$defs/d/additionalProperties")
	require.True(t, ok)
	assert.True(t, n.DeclaresType("boolean"))

	_, ok = s.Lookup("/properties/missing")
	assert.False(t, ok)
	_, ok = s.Lookup("/anyOf/9")
	assert.False(t, ok)
	root, ok := s.Lookup("")
	assert.True(t, ok)
	assert.Same(t, s, root)
}

func TestWalk_VisitsEverySubschema(t *testing.T) {
	s := js.MustParse(`{
		"properties": {"b": {"type": "string"}, "a": {"items": {"type": "number"}}},
		"$defs": {"x": {"oneOf": [true]}}
	}`)
	var seen []string
	s.Walk(func(ptr string, _ *js.Schema) bool {
		seen = append(seen, ptr)
		return true
	})
	assert.Equal(t, []string{"", "/properties/a", "/properties/a/items", "/properties/b", "/$defs/x", "/$defs/x/oneOf/0"}, seen)
}
