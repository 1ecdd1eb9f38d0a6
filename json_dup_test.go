package schematype_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/reoring/schematype"
)

func TestDetectJSONDuplicateKeysBytes_NoDup(t *testing.T) {
	iss, err := st.DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"b":{"a":2}}`), -1)
	require.NoError(t, err)
	assert.Empty(t, iss)
}

func TestDetectJSONDuplicateKeysBytes_WithDup(t *testing.T) {
	iss, err := st.DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"a":2,"p":[{"k":1,"k":2}]}`), -1)
	require.NoError(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, st.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/", iss[0].Path)
	assert.Equal(t, "a", iss[0].Params["key"])
	assert.Equal(t, "/p/0", iss[1].Path)
}

func TestDetectJSONDuplicateKeysBytes_MaxIssues(t *testing.T) {
	iss, err := st.DetectJSONDuplicateKeysBytes([]byte(`{"a":1,"a":2,"b":1,"b":2}`), 1)
	require.NoError(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, st.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, st.CodeTruncated, iss[1].Code)
}

func TestDetectJSONDuplicateKeysReader(t *testing.T) {
	iss, err := st.DetectJSONDuplicateKeysReader(strings.NewReader(`{"x":{"y":1,"y":2}}`), -1)
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "/x", iss[0].Path)
}
