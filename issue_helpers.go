package schematype

import (
	"fmt"

	"github.com/reoring/schematype/i18n"
)

// IssueAt builds an Issue at p with an explicit params map.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// Localize returns a copy of iss whose messages come from the i18n
// dictionary; issue params are passed as the message data.
func Localize(iss Issues) Issues {
	out := make(Issues, len(iss))
	for i, it := range iss {
		data := make(map[string]string, len(it.Params))
		for k, v := range it.Params {
			data[k] = fmt.Sprint(v)
		}
		it.Message = i18n.T(it.Code, data)
		out[i] = it
	}
	return out
}
