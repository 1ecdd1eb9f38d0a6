// Package gen renders Derived Types as Go source.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	ir "github.com/reoring/schematype/internal/ir"
	"github.com/reoring/schematype/shape"
)

// File is a unit of generated code.
type File struct {
	Package string
	Decls   []ir.Decl
}

// RenderTypes lowers types and renders them as one gofmt'd Go file.
func RenderTypes(pkg string, types map[string]shape.Type) ([]byte, error) {
	return RenderFile(File{Package: pkg, Decls: Lower(types)})
}

// RenderFile renders f and formats it with go/format.
func RenderFile(f File) ([]byte, error) {
	if f.Package == "" {
		return nil, fmt.Errorf("gen: package name required")
	}
	imports := map[string]bool{}
	for _, d := range f.Decls {
		collectImports(d.Type, imports)
	}

	var b bytes.Buffer
	b.WriteString("// Code generated by schematype. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", f.Package)
	if len(imports) > 0 {
		paths := make([]string, 0, len(imports))
		for p := range imports {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		b.WriteString("import (\n")
		for _, p := range paths {
			fmt.Fprintf(&b, "\t%q\n", p)
		}
		b.WriteString(")\n\n")
	}
	for _, d := range f.Decls {
		if d.Comment != "" {
			for _, line := range strings.Split(d.Comment, "\n") {
				b.WriteString("// " + line + "\n")
			}
		}
		fmt.Fprintf(&b, "type %s ", d.Name)
		writeType(&b, d.Type)
		b.WriteString("\n\n")
	}
	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w", err)
	}
	return out, nil
}

func collectImports(t ir.Type, into map[string]bool) {
	switch x := t.(type) {
	case *ir.Ident:
		if x.Import != "" {
			into[x.Import] = true
		}
	case *ir.Slice:
		collectImports(x.Elem, into)
	case *ir.Map:
		collectImports(x.Elem, into)
	case *ir.Pointer:
		collectImports(x.Elem, into)
	case *ir.Struct:
		for _, f := range x.Fields {
			collectImports(f.Type, into)
		}
	}
}

func writeType(b *bytes.Buffer, t ir.Type) {
	switch x := t.(type) {
	case *ir.Ident:
		b.WriteString(x.Name)
	case *ir.Slice:
		b.WriteString("[]")
		writeType(b, x.Elem)
	case *ir.Map:
		b.WriteString("map[string]")
		writeType(b, x.Elem)
	case *ir.Pointer:
		b.WriteString("*")
		writeType(b, x.Elem)
	case *ir.Struct:
		b.WriteString("struct {\n")
		for _, f := range x.Fields {
			b.WriteString(f.GoName + " ")
			writeType(b, f.Type)
			tag := f.JSONName
			if f.OmitEmpty {
				tag += ",omitempty"
			}
			b.WriteString(" `json:" + strconv.Quote(tag) + "`")
			if f.Default != nil {
				if d, err := json.Marshal(f.Default); err == nil {
					b.WriteString(" // default: " + string(d))
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("}")
	default:
		b.WriteString("any")
	}
}
