package codec_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/reoring/schematype"
	"github.com/reoring/schematype/codec"
	"github.com/reoring/schematype/shape"
)

func deriveType(t *testing.T, src string) shape.Type {
	t.Helper()
	typ, _, err := st.DeriveJSON([]byte(src), st.Table{}, st.Options{})
	require.NoError(t, err)
	return typ
}

const eventSchema = `{"type":"object",
	"properties":{
		"at":{"type":"string","format":"date-time"},
		"day":{"type":"string","format":"date"},
		"blob":{"type":"string","format":"binary"},
		"tags":{"type":"array","items":{"type":"string"}}},
	"required":["at","blob"]}`

func TestEncodeDecode_RoundTrip(t *testing.T) {
	typ := deriveType(t, eventSchema)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rich := map[string]any{
		"at":   at,
		"day":  time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		"blob": []byte("hi"),
		"tags": []any{"a"},
	}
	wire, err := codec.Encode(ctx, typ, rich)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"at":   "2024-05-01T12:00:00Z",
		"day":  "2024-05-02",
		"blob": "aGk=",
		"tags": []any{"a"},
	}, wire)
	assert.True(t, st.Conforms(shape.Strict(typ), wire))

	back, err := codec.Decode(ctx, typ, wire)
	require.NoError(t, err)
	m, ok := back.(map[string]any)
	require.True(t, ok)
	assert.True(t, at.Equal(m["at"].(time.Time)))
	assert.Equal(t, []byte("hi"), m["blob"])
	assert.True(t, st.Conforms(typ, back))
}

func TestEncode_AcceptsPartlySerializedValues(t *testing.T) {
	typ := deriveType(t, eventSchema)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	out, err := codec.Encode(context.Background(), typ, map[string]any{"at": &at, "blob": "aGk="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"at": "2024-05-01T12:00:00Z", "blob": "aGk="}, out)
}

func TestEncodeDecode_LeafErrors(t *testing.T) {
	typ := deriveType(t, eventSchema)
	ctx := context.Background()

	_, err := codec.Encode(ctx, typ, map[string]any{"at": "yesterday", "blob": []byte{}})
	iss, ok := st.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, "/at", iss[0].Path)
	assert.Equal(t, st.CodeInvalidFormat, iss[0].Code)

	_, err = codec.Decode(ctx, typ, map[string]any{"at": "2024-05-01T12:00:00Z", "blob": "!!"})
	iss, ok = st.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/blob", iss[0].Path)

	_, err = codec.Encode(ctx, typ, map[string]any{"at": 5, "blob": []byte{}})
	iss, ok = st.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, st.CodeInvalidType, iss[0].Code)
}

func TestEncodeDecode_Union(t *testing.T) {
	typ := deriveType(t, `{"oneOf":[{"type":"string","format":"date-time"},{"type":"number"}]}`)
	ctx := context.Background()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	s, err := codec.Encode(ctx, typ, at)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T03:04:05Z", s)

	n, err := codec.Encode(ctx, typ, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	back, err := codec.Decode(ctx, typ, "2024-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.True(t, at.Equal(back.(time.Time)))
}

func TestEncode_RecursiveType(t *testing.T) {
	typ := deriveType(t, `{"type":"object","properties":{
		"at":{"type":"string","format":"date-time"},"next":{"$ref":"#"}}}`)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out, err := codec.Encode(context.Background(), typ, map[string]any{
		"at":   at,
		"next": map[string]any{"at": at, "next": map[string]any{}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"at": "2024-01-01T00:00:00Z",
		"next": map[string]any{
			"at":   "2024-01-01T00:00:00Z",
			"next": map[string]any{},
		},
	}, out)
}

func TestEncode_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := codec.Encode(ctx, shape.String(), "x")
	assert.ErrorIs(t, err, context.Canceled)
}
