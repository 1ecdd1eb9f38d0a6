package codec

import (
	"context"
	"encoding/base64"

	st "github.com/reoring/schematype"
)

// Base64 returns a Leaf that converts between standard base64 strings and
// raw bytes.
func Base64() Leaf[string, []byte] { return base64Leaf{} }

type base64Leaf struct{}

func (base64Leaf) Decode(_ context.Context, a string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(a)
	if err != nil {
		return nil, st.Issues{{Path: "/", Code: st.CodeInvalidFormat, Message: "invalid base64", Hint: "binary", Cause: err}}
	}
	return b, nil
}

func (base64Leaf) Encode(_ context.Context, b []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(b), nil
}
