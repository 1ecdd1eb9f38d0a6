package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_Paths(t *testing.T) {
	data := []byte(`{"a":{"x":1,"x":2},"b":[{"y":1},{"y":1,"y":2}],"c/d":{"z":0,"z":0}}`)
	iss, err := DetectJSONDuplicateKeysBytes(data, DupWarn, -1)
	require.NoError(t, err)

	var paths []string
	for _, it := range iss {
		assert.Equal(t, CodeDuplicateKey, it.Code)
		paths = append(paths, it.Path)
	}
	assert.Equal(t, []string{"/a", "/b/1", "/c~1d"}, paths)
}

func TestDetect_ErrorStopsAtFirst(t *testing.T) {
	iss, err := DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"a":2,"b":1,"b":2}`), DupError, -1)
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "a", iss[0].Key)
}

func TestDetect_Ignore(t *testing.T) {
	iss, err := DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"a":2}`), DupIgnore, -1)
	require.NoError(t, err)
	assert.Empty(t, iss)
}

func TestDetect_ZeroDisablesReporting(t *testing.T) {
	iss, err := DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"a":2}`), DupWarn, 0)
	require.NoError(t, err)
	assert.Empty(t, iss)
}

func TestDetect_SyntaxError(t *testing.T) {
	iss, err := DetectJSONDuplicateKeysBytes([]byte(`{"a": tru}`), DupWarn, -1)
	require.NoError(t, err)
	require.NotEmpty(t, iss)
	assert.Equal(t, CodeParseError, iss[len(iss)-1].Code)
}

func TestEscapeToken(t *testing.T) {
	assert.Equal(t, "a~0b~1c", escapeToken("a~b/c"))
}
