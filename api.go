package schematype

import (
	"errors"

	js "github.com/reoring/schematype/jsonschema"
	"github.com/reoring/schematype/shape"
)

// Derive computes the Derived Type of node: the shape of any value
// conforming to it. table supplies external documents for $ref resolution
// and may be the zero Table; node itself is always resolvable as "#".
//
// Unresolvable references are fatal and reported as Issues with code
// CodeUnresolvedRef. Combinators the deriver cannot express degrade to
// never and are reported through Diag, or as CodeUnsupportedCombinator
// issues when opts.Strict is set.
func Derive(node *js.Schema, table Table, opts Options) (shape.Type, Diag, error) {
	diag := &simpleDiag{}
	if node == nil {
		return nil, diag, ErrNilSchema
	}
	d := newDeriver(opts, diag)
	out, _ := d.derive(node, table.push(Entry{ID: node.ID, Node: node}), Root())
	if len(d.issues) > 0 {
		return nil, diag, d.issues
	}
	return out, diag, nil
}

// MustDerive is Derive for schemas known to be valid; it panics on error.
func MustDerive(node *js.Schema, table Table, opts Options) shape.Type {
	t, _, err := Derive(node, table, opts)
	if err != nil {
		panic(err)
	}
	return t
}

// DeriveJSON parses a JSON schema document and derives it. Syntax errors and
// duplicate keys are reported as Issues.
func DeriveJSON(data []byte, table Table, opts Options) (shape.Type, Diag, error) {
	node, err := js.Parse(data)
	if err != nil {
		return nil, &simpleDiag{}, parseIssues(err)
	}
	return Derive(node, table, opts)
}

// DeriveYAML is DeriveJSON for YAML documents.
func DeriveYAML(data []byte, table Table, opts Options) (shape.Type, Diag, error) {
	node, err := js.ParseYAML(data)
	if err != nil {
		return nil, &simpleDiag{}, parseIssues(err)
	}
	return Derive(node, table, opts)
}

func parseIssues(err error) Issues {
	var dup *js.DuplicateKeyError
	if errors.As(err, &dup) {
		path := dup.Path
		if path == "" {
			path = "/"
		}
		it := At(path).Issue(CodeDuplicateKey, dup.Error(), "key", dup.Key)
		if dup.Line > 0 {
			it.Params["line"], it.Params["col"] = dup.Line, dup.Col
		}
		it.Cause = err
		return Issues{it}
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
}
