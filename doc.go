// Package schematype derives value shapes from JSON Schema documents.
//
// Given a Schema Node and a Reference Table, Derive computes the Derived
// Type (package shape) that any conforming value has: objects with
// per-property optionality, arrays, unions, intersections, literals and
// primitives, with date/time and binary leaves kept distinct from plain
// strings. $ref and $defs are resolved against an explicit, immutable Table,
// including self and mutually recursive schemas, which derive to graphs that
// close their cycles through shape.Named handles.
//
// Design policy:
//   - Keep only public APIs in the root package; put detailed implementations under internal/.
//   - Schema documents live in jsonschema/, the type model in shape/, value codecs in codec/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	node, err := jsonschema.Parse(data)
//	t, diag, err := schematype.Derive(node, schematype.Table{}, schematype.Options{Mode: schematype.ModeResponse})
//	wire := shape.Strict(t)
//	err = schematype.Check(t, value)
package schematype
