package booksearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterChain_Thresholds(t *testing.T) {
	fc := NewFilterChain()
	assert.True(t, fc.IsEmpty())

	fc.SetMaxPages(500)
	fc.SetMaxPages(800)
	fc.SetMinRatingCount(10)
	fc.SetMinRatingCount(5)
	fc.SetMinRatingCount(100)
	fc.AddLanguage("eng")
	fc.AddLanguage("en-US")

	assert.False(t, fc.IsEmpty())
	assert.Equal(t,
		"Filter success, now it will only return language in eng, en-US, number of pages < 500, total rating > 100",
		fc.Describe())

	fc.Clear()
	assert.True(t, fc.IsEmpty())
	assert.Equal(t, "Filter success, now it will only return", fc.Describe())
}

func TestFilterChain_Apply(t *testing.T) {
	b := NewBackend()
	a := &Book{Title: "A", Pages: 100, RatingCount: 500, Language: "eng"}
	c := &Book{Title: "C", Pages: 900, RatingCount: 500, Language: "eng"}
	d := &Book{Title: "D", Pages: 100, RatingCount: 5, Language: "eng"}
	e := &Book{Title: "E", Pages: 100, RatingCount: 500, Language: "spa"}
	list := []*Book{a, c, d, e}

	t.Run("no filters", func(t *testing.T) {
		got, err := NewFilterChain().Apply(b, list)
		require.NoError(t, err)
		assert.Equal(t, list, got)
	})
	t.Run("all filters", func(t *testing.T) {
		fc := NewFilterChain()
		fc.AddLanguage("eng")
		fc.SetMinRatingCount(10)
		fc.SetMaxPages(300)
		got, err := fc.Apply(b, list)
		require.NoError(t, err)
		assert.Equal(t, []*Book{a}, got)
	})
	t.Run("languages intersect", func(t *testing.T) {
		fc := NewFilterChain()
		fc.AddLanguage("eng")
		fc.AddLanguage("spa")
		fc.SetMaxPages(300)
		got, err := fc.Apply(b, list)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
	t.Run("empty input", func(t *testing.T) {
		fc := NewFilterChain()
		fc.SetMaxPages(300)
		got, err := fc.Apply(b, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
	t.Run("language on empty input", func(t *testing.T) {
		fc := NewFilterChain()
		fc.AddLanguage("eng")
		got, err := fc.Apply(b, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
