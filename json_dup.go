package schematype

import (
	"io"

	eng "github.com/reoring/schematype/internal/engine"
)

// DetectJSONDuplicateKeysBytes reports every duplicate object key of a JSON
// document. The implementation delegates to internal/engine. maxIssues < 0
// means unlimited.
func DetectJSONDuplicateKeysBytes(data []byte, maxIssues int) (Issues, error) {
	si, err := eng.DetectJSONDuplicateKeysBytes(data, eng.DupWarn, maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

// DetectJSONDuplicateKeysReader is DetectJSONDuplicateKeysBytes over an
// io.Reader, which is consumed fully.
func DetectJSONDuplicateKeysReader(r io.Reader, maxIssues int) (Issues, error) {
	si, err := eng.DetectJSONDuplicateKeysReader(r, eng.DupWarn, maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		it := Issue{Code: s.Code, Path: s.Path, Message: s.Message}
		if s.Key != "" {
			it.Params = map[string]any{"key": s.Key}
		}
		iss = AppendIssues(iss, it)
	}
	return iss
}
