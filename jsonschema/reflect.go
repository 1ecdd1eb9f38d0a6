package jsonschema

import (
	"fmt"

	"github.com/goccy/go-json"
	invopop "github.com/invopop/jsonschema"
)

// ReflectOptions tunes Reflect.
type ReflectOptions struct {
	// ID becomes the $id of the reflected root.
	ID string
	// Inline expands nested struct types in place instead of emitting $defs.
	Inline bool
	// RequiredFromTags makes only fields tagged `jsonschema:"required"` required.
	RequiredFromTags bool
}

// Reflect builds a Schema from a Go value's type. time.Time fields become
// `string` with `format: date-time`.
func Reflect(v any, opts ReflectOptions) (*Schema, error) {
	r := &invopop.Reflector{
		DoNotReference:             opts.Inline,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: opts.RequiredFromTags,
	}
	rs := r.Reflect(v)
	if opts.ID != "" {
		rs.ID = invopop.ID(opts.ID)
	}
	b, err := json.Marshal(rs)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: reflect %T: %w", v, err)
	}
	return Parse(b)
}
