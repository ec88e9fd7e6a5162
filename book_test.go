package booksearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_TitleKey(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Harry Potter and the Half-Blood Prince", "harry"},
		{"  The Hobbit", "the"},
		{"Été indien", "été"},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, (&Book{Title: tt.title}).TitleKey(), tt.title)
	}
}

func TestBook_Fingerprint(t *testing.T) {
	a := &Book{Title: "Dune", Authors: "Frank Herbert", Pages: 412, Language: "eng", Rating: 4.25}
	b := &Book{Title: "Dune", Authors: "Frank Herbert", Pages: 412, Language: "eng", Rating: 3.0}
	c := &Book{Title: "Dune", Authors: "Frank Herbert", Pages: 413, Language: "eng"}
	d := &Book{Title: "DuneFrank", Authors: " Herbert", Pages: 412, Language: "eng"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestBook_RecordAndString(t *testing.T) {
	book := &Book{Title: "Dune", Authors: "Frank Herbert", Rating: 4.0, Pages: 412, RatingCount: 10, ReviewCount: 2, Language: "eng"}

	rec := book.Record()
	assert.Equal(t, "Dune", rec["title"])
	assert.Equal(t, 412, rec["num_pages"])
	assert.Equal(t, "eng", rec["language_code"])

	back, err := BookFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, book, back)

	assert.Equal(t, "Title = Dune\nNumber of Pages = 412\nRating = 4.0\nAuthor = Frank Herbert\nTotal Rating = 10\nTotal Reviews = 2\nLanguage = eng", book.String())
	assert.True(t, book.IsSameLanguage("eng"))
	assert.False(t, book.IsSameLanguage("ENG"))
}
