package codec_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/reoring/schematype"
	"github.com/reoring/schematype/codec"
)

func TestTimeRFC3339_RoundTrip(t *testing.T) {
	c := codec.TimeRFC3339()
	ctx := context.Background()

	got, err := c.Decode(ctx, "2025-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	out, err := c.Encode(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T00:00:00Z", out)
}

func TestTimeRFC3339_EncodeNormalizesToUTC(t *testing.T) {
	c := codec.TimeRFC3339()
	ctx := context.Background()

	got, err := c.Decode(ctx, "2025-01-01T09:00:00.500000000+09:00")
	require.NoError(t, err)
	out, err := c.Encode(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T00:00:00.5Z", out)
}

func TestTimeRFC3339_DecodeInvalid(t *testing.T) {
	_, err := codec.TimeRFC3339().Decode(context.Background(), "not-a-time")
	iss, ok := st.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, st.CodeInvalidFormat, iss[0].Code)
	assert.Equal(t, "date-time", iss[0].Hint)
}

func TestDate_RoundTrip(t *testing.T) {
	c := codec.Date()
	ctx := context.Background()

	got, err := c.Decode(ctx, "2024-02-29")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))

	out, err := c.Encode(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", out)

	_, err = c.Decode(ctx, "2023-02-29")
	assert.Error(t, err)
}

func TestBase64_RoundTrip(t *testing.T) {
	c := codec.Base64()
	ctx := context.Background()

	s, err := c.Encode(ctx, []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "aGk=", s)

	b, err := c.Decode(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), b)

	_, err = c.Decode(ctx, "!!")
	iss, ok := st.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, st.CodeInvalidFormat, iss[0].Code)
}

func TestIdentity(t *testing.T) {
	c := codec.Identity[int]()
	v, err := c.Decode(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
