// Package bundle loads a set of schema documents from a filesystem into an
// external Reference Table, so that $ref between files resolves by $id.
package bundle

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	st "github.com/reoring/schematype"
	"github.com/reoring/schematype/internal/gen"
	js "github.com/reoring/schematype/jsonschema"
	"github.com/reoring/schematype/shape"
)

// Document is one schema loaded from a file.
type Document struct {
	// Path is slash-separated and relative to the load root.
	Path   string
	Schema *js.Schema
}

// Bundle is an ordered set of documents. Later documents shadow earlier ones
// that share an $id.
type Bundle struct {
	Docs []Document
}

// Load reads every .json, .yaml and .yml file below root whose relative path
// matches the doublestar pattern (for example "**/*.json"). Documents without
// an $id are identified by their relative path; the n-th extra document of a
// multi-document YAML file by "<path>:<n>".
func Load(fsys afero.Fs, root, pattern string) (*Bundle, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("bundle: invalid pattern %q", pattern)
	}
	var paths []string
	err := afero.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSchemaFile(p) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return err
		}
		if ok {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bundle: walk %s: %w", root, err)
	}
	sort.Strings(paths)

	b := &Bundle{}
	for _, rel := range paths {
		data, err := afero.ReadFile(fsys, filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("bundle: read %s: %w", rel, err)
		}
		docs, err := parse(rel, data)
		if err != nil {
			return nil, fmt.Errorf("bundle: %s: %w", rel, err)
		}
		for i, d := range docs {
			if d.ID == "" {
				d.ID = rel
				if i > 0 {
					d.ID = rel + ":" + strconv.Itoa(i)
				}
			}
			b.Docs = append(b.Docs, Document{Path: rel, Schema: d})
		}
		st.Logger().Debug("loaded schema file", "path", rel, "documents", len(docs))
	}
	return b, nil
}

func isSchemaFile(p string) bool {
	switch strings.ToLower(path.Ext(filepath.ToSlash(p))) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func parse(rel string, data []byte) ([]*js.Schema, error) {
	if strings.EqualFold(path.Ext(rel), ".json") {
		s, err := js.Parse(data)
		if err != nil {
			return nil, err
		}
		return []*js.Schema{s}, nil
	}
	return js.ParseYAMLAll(data)
}

// Table returns the external Reference Table holding every document.
func (b *Bundle) Table() st.Table {
	docs := make([]*js.Schema, len(b.Docs))
	for i, d := range b.Docs {
		docs[i] = d.Schema
	}
	return st.NewTable(docs...)
}

// Lookup returns the document with the given $id.
func (b *Bundle) Lookup(id string) (*js.Schema, bool) {
	for i := len(b.Docs) - 1; i >= 0; i-- {
		if b.Docs[i].Schema.ID == id {
			return b.Docs[i].Schema, true
		}
	}
	return nil, false
}

// IDs returns the document ids in load order.
func (b *Bundle) IDs() []string {
	out := make([]string, len(b.Docs))
	for i, d := range b.Docs {
		out[i] = d.Schema.ID
	}
	return out
}

// Derive derives the document with the given $id against the whole bundle.
func (b *Bundle) Derive(ctx context.Context, d *st.Deriver, id string, opts st.Options) (shape.Type, st.Diag, error) {
	node, ok := b.Lookup(id)
	if !ok {
		return nil, st.NewDiag(), fmt.Errorf("bundle: no document with $id %q", id)
	}
	return d.Derive(ctx, node, b.Table(), opts)
}

// DeriveAll derives every document, keyed by $id. It stops at the first
// document that fails.
func (b *Bundle) DeriveAll(ctx context.Context, d *st.Deriver, opts st.Options) (map[string]shape.Type, error) {
	table := b.Table()
	out := make(map[string]shape.Type, len(b.Docs))
	for _, doc := range b.Docs {
		t, _, err := d.Derive(ctx, doc.Schema, table, opts)
		if err != nil {
			return nil, fmt.Errorf("bundle: derive %s: %w", doc.Schema.ID, err)
		}
		out[doc.Schema.ID] = t
	}
	return out, nil
}

// GoSource derives every document and renders the results as Go type
// declarations in package pkg, one per document id.
func (b *Bundle) GoSource(ctx context.Context, d *st.Deriver, pkg string, opts st.Options) ([]byte, error) {
	all, err := b.DeriveAll(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	return gen.RenderTypes(pkg, all)
}
