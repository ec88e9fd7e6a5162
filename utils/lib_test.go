package utils

import (
	"testing"

	"github.com/oarkflow/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLower(t *testing.T) {
	assert.Equal(t, "harry potter", ToLower("HaRRy Potter"))
	assert.Equal(t, "élan", ToLower("Élan"))
	assert.Equal(t, "", ToLower(""))
}

func TestFirstToken(t *testing.T) {
	tests := map[string]string{
		"Harry Potter":      "Harry",
		"   leading spaces": "leading",
		"tab\tseparated":    "tab",
		"single":            "single",
		"   ":               "",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FirstToken(in), in)
	}
}

func TestBoundedLevenshtein(t *testing.T) {
	assert.Equal(t, 0, BoundedLevenshtein("harry", "harry", 2))
	assert.Equal(t, 1, BoundedLevenshtein("harry", "hary", 2))
	assert.Equal(t, 3, BoundedLevenshtein("harry", "potter", 2))
	assert.Equal(t, 3, BoundedLevenshtein("a", "abcdef", 2))
}

func TestToFloat(t *testing.T) {
	for _, in := range []any{4.5, float32(4.5), "4.5", " 4.5 ", []byte("4.5"), json.Number("4.5")} {
		f, err := ToFloat(in)
		require.NoError(t, err)
		assert.Equal(t, 4.5, f)
	}
	_, err := ToFloat("four")
	assert.Error(t, err)
	_, err = ToFloat(true)
	assert.Error(t, err)
}

func TestToInt(t *testing.T) {
	for _, in := range []any{12, int64(12), 12.0, "12", []byte(" 12"), json.Number("12")} {
		n, err := ToInt(in)
		require.NoError(t, err)
		assert.Equal(t, 12, n)
	}
	for _, in := range []any{12.5, "12.5", "", nil} {
		_, err := ToInt(in)
		assert.Error(t, err)
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "4.5", ToString(4.5))
	assert.Equal(t, "4", ToString(4.0))
	assert.Equal(t, "0.1", ToString(float32(0.1)))
	assert.Equal(t, "42", ToString(42))
	assert.Equal(t, "true", ToString(true))
}
