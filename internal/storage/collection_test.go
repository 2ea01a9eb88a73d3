// ABOUTME: Tests for the versioned collection encoding
// ABOUTME: Covers legacy arrays, newer versions and malformed input

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCollection_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n"} {
		c, err := DecodeCollection([]byte(in))
		require.NoError(t, err)
		assert.Empty(t, c.Paths)
	}
}

func TestDecodeCollection_RoundTrip(t *testing.T) {
	c := &Collection{}
	c.Upsert(finalizedPath("a", 2))
	c.Upsert(finalizedPath("b", 0))

	data, err := c.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":1`)

	decoded, err := DecodeCollection(data)
	require.NoError(t, err)
	assert.Equal(t, c.Paths, decoded.Paths)
}

func TestDecodeCollection_LegacyArray(t *testing.T) {
	data := []byte(`[{"id":"old","name":"Old","description":"","startTime":"2024-05-01T12:00:00Z","endTime":"2024-05-01T12:01:00Z","points":null,"totalDistance":0,"duration":60000}]`)
	c, err := DecodeCollection(data)
	require.NoError(t, err)
	require.Len(t, c.Paths, 1)
	assert.Equal(t, "old", c.Paths[0].ID)
	assert.NotNil(t, c.Paths[0].Points)
}

func TestDecodeCollection_NewerVersion(t *testing.T) {
	_, err := DecodeCollection([]byte(`{"version":99,"paths":[]}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeCollection_Malformed(t *testing.T) {
	cases := map[string]string{
		"garbage":    `not json`,
		"wrong type": `{"version":1,"paths":"nope"}`,
		"missing id": `{"version":1,"paths":[{"name":"x"}]}`,
		"null entry": `[null]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCollection([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestCollection_UpsertRemove(t *testing.T) {
	c := &Collection{}
	c.Upsert(finalizedPath("a", 1))
	c.Upsert(finalizedPath("b", 1))
	c.Upsert(finalizedPath("a", 3))

	require.Len(t, c.Paths, 2)
	assert.Equal(t, 0, c.Find("a"))
	assert.Len(t, c.Paths[0].Points, 3)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, -1, c.Find("a"))
	assert.Equal(t, 0, c.Find("b"))
}
