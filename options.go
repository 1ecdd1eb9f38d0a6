package schematype

import "fmt"

// Mode selects which properties are forced present.
type Mode int

const (
	// ModeRequest derives the shape a client may send: defaulted properties
	// stay optional unless required.
	ModeRequest Mode = iota
	// ModeResponse derives the shape a server returns: any property carrying
	// a default is always present.
	ModeResponse
)

func (m Mode) String() string {
	if m == ModeResponse {
		return "response"
	}
	return "request"
}

// RecursionPolicy controls required properties whose $ref closes a cycle
// back to an object or array typed node.
type RecursionPolicy int

const (
	// RecursionOptional keeps such properties optional even when listed in
	// required.
	RecursionOptional RecursionPolicy = iota
	// RecursionRequired honours required for them as for any other property.
	RecursionRequired
)

// Options controls a single derivation.
type Options struct {
	Mode      Mode
	Recursion RecursionPolicy
	// Strict rejects malformed combinators (anyOf on an object without
	// properties, anyOf branches requiring undeclared keys) with
	// CodeUnsupportedCombinator instead of degrading them to never.
	Strict bool
	// FailFast stops at the first unresolved reference.
	FailFast bool
}

// Diag carries non-fatal warnings produced during derivation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

// NewDiag returns an empty Diag.
func NewDiag() Diag { return &simpleDiag{} }

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
