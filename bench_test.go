package schematype_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	st "github.com/reoring/schematype"
	js "github.com/reoring/schematype/jsonschema"
)

// wideSchema returns an object schema with n string properties, a recursive
// child list and a shared definition referenced from every property.
func wideSchema(tb testing.TB, n int) *js.Schema {
	tb.Helper()
	var buf bytes.Buffer
	buf.WriteString(`{"type":"object","$defs":{"label":{"type":"string"}},"properties":{`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, `"f%d":{"$ref":"#/$defs/label"},`, i)
	}
	buf.WriteString(`"children":{"type":"array","items":{"$ref":"#"}}}}`)
	s, err := js.Parse(buf.Bytes())
	if err != nil {
		tb.Fatalf("parse: %v", err)
	}
	return s
}

func BenchmarkDerive(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		node := wideSchema(b, n)
		b.Run(fmt.Sprintf("props=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, _, err := st.Derive(node, st.Table{}, st.Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDeriver_Cached(b *testing.B) {
	node := wideSchema(b, 100)
	d, err := st.NewDeriver(st.DeriverOptions{})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, _, err := d.Derive(ctx, node, st.Table{}, st.Options{}); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkCheckJSON(b *testing.B) {
	typ := st.MustDerive(wideSchema(b, 20), st.Table{}, st.Options{})
	var buf bytes.Buffer
	buf.WriteString(`{"children":[`)
	for i := 0; i < 100; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"f0":"v%d","f1":"w","children":[]}`, i)
	}
	buf.WriteString(`]}`)
	data := buf.Bytes()

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		if err := st.CheckJSON(typ, data); err != nil {
			b.Fatal(err)
		}
	}
}
