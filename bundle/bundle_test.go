package bundle_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/reoring/schematype"
	"github.com/reoring/schematype/bundle"
	"github.com/reoring/schematype/shape"
)

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return fs
}

func sampleFS(t *testing.T) afero.Fs {
	return writeFiles(t, map[string]string{
		"schemas/common.json":         `{"$id":"common","$defs":{"name":{"type":"string"}}}`,
		"schemas/user.yaml":           "$id: user\ntype: object\nproperties:\n  name: {$ref: 'common#/$defs/name'}\n  friend: {$ref: user}\nrequired: [name]\n",
		"schemas/notes/untitled.json": `{"type":"number"}`,
		"schemas/multi.yml":           "type: string\n---\ntype: boolean\n",
		"schemas/readme.txt":          "not a schema",
	})
}

func newDeriver(t *testing.T) *st.Deriver {
	t.Helper()
	d, err := st.NewDeriver(st.DeriverOptions{})
	require.NoError(t, err)
	return d
}

func TestLoad(t *testing.T) {
	b, err := bundle.Load(sampleFS(t), "schemas", "**/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"common", "multi.yml", "multi.yml:1", "notes/untitled.json", "user"}, b.IDs())
	assert.Equal(t, "multi.yml", b.Docs[2].Path)

	doc, ok := b.Lookup("user")
	require.True(t, ok)
	assert.Equal(t, "user", doc.ID)
	_, ok = b.Lookup("nobody")
	assert.False(t, ok)
}

func TestLoad_Pattern(t *testing.T) {
	b, err := bundle.Load(sampleFS(t), "schemas", "notes/**/*.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/untitled.json"}, b.IDs())

	_, err = bundle.Load(sampleFS(t), "schemas", "[")
	assert.Error(t, err)
}

func TestLoad_ParseError(t *testing.T) {
	fs := writeFiles(t, map[string]string{"s/bad.json": `{"type":"string","type":"number"}`})
	_, err := bundle.Load(fs, "s", "**/*.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestBundle_DeriveAcrossFiles(t *testing.T) {
	b, err := bundle.Load(sampleFS(t), "schemas", "**/*")
	require.NoError(t, err)

	typ, _, err := b.Derive(context.Background(), newDeriver(t), "user", st.Options{})
	require.NoError(t, err)
	assert.Equal(t, "type User = { friend?: User; name: string }\nUser", shape.Format(typ))
	assert.True(t, st.Conforms(typ, map[string]any{"name": "a", "friend": map[string]any{"name": "b"}}))
	assert.False(t, st.Conforms(typ, map[string]any{"friend": map[string]any{"name": "b"}}))

	missing, diag, err := b.Derive(context.Background(), newDeriver(t), "nobody", st.Options{})
	assert.Error(t, err)
	assert.Nil(t, missing)
	require.NotNil(t, diag)
	assert.False(t, diag.HasWarnings())
	assert.Empty(t, diag.Warnings())
}

func TestBundle_DeriveAll(t *testing.T) {
	b, err := bundle.Load(sampleFS(t), "schemas", "**/*")
	require.NoError(t, err)

	all, err := b.DeriveAll(context.Background(), newDeriver(t), st.Options{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Same(t, shape.String(), all["multi.yml"])
	assert.Same(t, shape.Boolean(), all["multi.yml:1"])
	assert.Same(t, shape.Number(), all["notes/untitled.json"])
	assert.Same(t, shape.Any(), all["common"])
}

func TestBundle_DeriveAllStopsOnUnresolvedRef(t *testing.T) {
	fs := writeFiles(t, map[string]string{"s/a.json": `{"$ref":"missing#/$defs/x"}`})
	b, err := bundle.Load(fs, "s", "*.json")
	require.NoError(t, err)

	_, err = b.DeriveAll(context.Background(), newDeriver(t), st.Options{})
	require.Error(t, err)
	iss, ok := st.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, st.CodeUnresolvedRef, iss[0].Code)
}

func TestBundle_GoSource(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"s/pet.json": `{"$id":"pet","type":"object","properties":{"name":{"type":"string"},"born":{"type":"string","format":"date"}},"required":["name"]}`,
	})
	b, err := bundle.Load(fs, "s", "**/*.json")
	require.NoError(t, err)

	src, err := b.GoSource(context.Background(), newDeriver(t), "pets", st.Options{})
	require.NoError(t, err)
	assert.Contains(t, string(src), "package pets")
	assert.Contains(t, string(src), "type Pet struct")
	assert.Contains(t, string(src), `"time"`)
}
