package booksearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues_Merge(t *testing.T) {
	tests := []struct {
		name     string
		stored   []int
		incoming []int
		want     []int
	}{
		{"disjoint", []int{1, 2}, []int{3}, []int{1, 2, 3}},
		{"overlap moves to incoming order", []int{1, 2, 3}, []int{2, 4}, []int{1, 3, 2, 4}},
		{"superset", []int{1}, []int{2, 1}, []int{2, 1}},
		{"identical", []int{1, 2}, []int{1, 2}, []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := NewValues(tt.stored...)
			vs.Merge(NewValues(tt.incoming...))
			assert.Equal(t, tt.want, vs.Slice())
		})
	}
}

func TestValues_PointerIdentity(t *testing.T) {
	a := &Book{Title: "Same"}
	b := &Book{Title: "Same"}
	vs := NewValues(a, b, a)
	assert.Equal(t, 2, vs.Len())
	assert.True(t, vs.Contains(b))
	assert.False(t, vs.Contains(&Book{Title: "Same"}))
	assert.False(t, vs.Equal(NewValues(b, a)))
	assert.True(t, vs.Equal(NewValues(a, b)))
}

func TestValues_SliceIsCopy(t *testing.T) {
	vs := NewValues(1, 2)
	s := vs.Slice()
	s[0] = 9
	assert.Equal(t, []int{1, 2}, vs.Slice())
}
