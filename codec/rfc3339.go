package codec

import (
	"context"
	"time"

	st "github.com/reoring/schematype"
)

// DateLayout is the wire layout of `format: date` values.
const DateLayout = "2006-01-02"

// TimeRFC3339 returns a Leaf that converts between RFC3339 strings and time.Time.
func TimeRFC3339() Leaf[string, time.Time] { return rfc3339Leaf{} }

// Date returns a Leaf that converts between full-date strings (2006-01-02)
// and time.Time at UTC midnight.
func Date() Leaf[string, time.Time] { return dateLeaf{} }

type rfc3339Leaf struct{}

func (rfc3339Leaf) Decode(_ context.Context, a string) (time.Time, error) {
	t, err := parseRFC3339(a)
	if err != nil {
		return time.Time{}, st.Issues{{Path: "/", Code: st.CodeInvalidFormat, Message: "invalid RFC3339 time", Hint: "date-time", Cause: err}}
	}
	return t, nil
}

func (rfc3339Leaf) Encode(_ context.Context, b time.Time) (string, error) {
	return formatRFC3339Canonical(b), nil
}

type dateLeaf struct{}

func (dateLeaf) Decode(_ context.Context, a string) (time.Time, error) {
	t, err := time.Parse(DateLayout, a)
	if err != nil {
		return time.Time{}, st.Issues{{Path: "/", Code: st.CodeInvalidFormat, Message: "invalid full-date", Hint: "date", Cause: err}}
	}
	return t, nil
}

func (dateLeaf) Encode(_ context.Context, b time.Time) (string, error) {
	return b.Format(DateLayout), nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
