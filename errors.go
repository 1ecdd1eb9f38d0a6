package schematype

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Derivation (schema-load time)
	CodeUnresolvedRef         = "unresolved_ref"
	CodeUnsupportedCombinator = "unsupported_combinator"
	CodeDuplicateKey          = "duplicate_key"
	CodeParseError            = "parse_error"
	CodeTruncated             = "truncated"
	// Conformance (value time)
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeInvalidLiteral = "invalid_literal"
	CodeNoMatch        = "no_match"
	// Value codecs
	CodeInvalidFormat = "invalid_format"
)

// ErrNilSchema is returned when derivation is asked for a nil node.
var ErrNilSchema = errors.New("schematype: nil schema")

// Issue represents a single derivation or conformance entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /properties/items/$ref).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: the offending reference key, expected type, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"ref":"#/$defs/x"})
	// for i18n.
	Params map[string]any
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unresolved_ref at /properties/a/$ref
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is sees through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
