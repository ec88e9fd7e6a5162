package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(t *Trie[int], prefix string) []string {
	var keys []string
	t.WalkPrefix(prefix, func(key string, _ int) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func TestTrie_InsertGet(t *testing.T) {
	tr := NewTrie[int]()
	for i, k := range []string{"harry", "harrying", "hare", "the", "h"} {
		tr.Insert(k, i)
	}
	assert.Equal(t, 5, tr.Len())

	for i, k := range []string{"harry", "harrying", "hare", "the", "h"} {
		v, ok := tr.Get(k)
		assert.True(t, ok, k)
		assert.Equal(t, i, v, k)
	}
	for _, k := range []string{"har", "harr", "harryi", "t", "thee", ""} {
		_, ok := tr.Get(k)
		assert.False(t, ok, k)
	}

	tr.Insert("harry", 42)
	v, _ := tr.Get("harry")
	assert.Equal(t, 42, v)
	assert.Equal(t, 5, tr.Len())
}

func TestTrie_WalkPrefix(t *testing.T) {
	tr := NewTrie[int]()
	for i, k := range []string{"harry", "harrying", "hare", "the", "le"} {
		tr.Insert(k, i)
	}

	assert.Equal(t, []string{"hare", "harry", "harrying"}, collect(tr, "har"))
	assert.Equal(t, []string{"harry", "harrying"}, collect(tr, "harr"))
	assert.Equal(t, []string{"harry", "harrying"}, collect(tr, "harry"))
	assert.Equal(t, []string{"harrying"}, collect(tr, "harryi"))
	assert.Equal(t, []string{"hare", "harry", "harrying", "le", "the"}, collect(tr, ""))
	assert.Empty(t, collect(tr, "hx"))
	assert.Empty(t, collect(tr, "harryingx"))

	var first []string
	tr.WalkPrefix("h", func(key string, _ int) bool {
		first = append(first, key)
		return false
	})
	assert.Equal(t, []string{"hare"}, first)
}

func TestTrie_Traverse(t *testing.T) {
	tr := NewTrie[string]()
	tr.Insert("b", "2")
	tr.Insert("a", "1")
	tr.Insert("ab", "3")

	got := map[string]string{}
	var order []string
	tr.Traverse(func(key, value string) {
		got[key] = value
		order = append(order, key)
	})
	assert.Equal(t, map[string]string{"a": "1", "ab": "3", "b": "2"}, got)
	assert.Equal(t, []string{"a", "ab", "b"}, order)
}
