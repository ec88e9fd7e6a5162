package booksearch

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, input string) string {
	t.Helper()
	b, _ := newSampleBackend(t)
	var out bytes.Buffer
	err := NewFrontend(b, strings.NewReader(input), &out).Run(context.Background())
	require.NoError(t, err)
	return out.String()
}

func TestFrontend_TitleSearch(t *testing.T) {
	out := runSession(t, "t\nHarry\nq\n")
	assert.Contains(t, out, "Welcome to the Book Searcher App!")
	assert.Contains(t, out, "Found 2/5 matches.")
	assert.Contains(t, out, "1. Harry Potter and the Half-Blood Prince\n\tWritten by: J.K. Rowling\n\tAverage rating: 4.57/5\n\tNumber of Pages: 652\n\tRating counts: 2095690")
	assert.Contains(t, out, "Thanks for using Book Searcher App")
}

func TestFrontend_RatingSearch(t *testing.T) {
	out := runSession(t, "1\n3\n1\n6.5\nr\nabc\n1\n1.0\n7\n")
	assert.Contains(t, out, "Found 1/5 matches.")
	assert.Contains(t, out, "Average rating: 3.0/5")
	assert.Contains(t, out, "choose another rating")
	assert.Contains(t, out, "please enter a number")
	assert.Contains(t, out, "nothing found for this rating")
}

func TestFrontend_FiltersApplyToSearches(t *testing.T) {
	out := runSession(t, "fnp\n700\nfnp\n900\nftr\n10\nt\nharry\ncf\nt\nharry\nq\n")
	assert.Contains(t, out, "Filter success, now it will only return, number of pages < 700")
	assert.Contains(t, out, "Filter success, now it will only return, number of pages < 700, total rating > 10")
	assert.Contains(t, out, "Found 1/5 matches.")
	assert.Contains(t, out, "Filter cleared")
	assert.Contains(t, out, "Found 2/5 matches.")
}

func TestFrontend_LanguageFilter(t *testing.T) {
	out := runSession(t, "fl\nfre\nfl\n\nt\nharry\nq\n")
	assert.Contains(t, out, "Filter success, now it will only return language in fre")
	assert.Contains(t, out, "Input invalid, please try again")
	assert.Contains(t, out, "Found 0/5 matches.")
}

func TestFrontend_MissesAndSuggestions(t *testing.T) {
	out := runSession(t, "t\nharryng\ns\nhar\ns\nzzz\nq\n")
	assert.Contains(t, out, "nothing found for this title")
	assert.Contains(t, out, "Did you mean: harrying, harry?")
	assert.Contains(t, out, "harry, harrying")
	assert.Contains(t, out, "no suggestions")
}

func TestFrontend_InvalidInput(t *testing.T) {
	out := runSession(t, "\nbogus\nt\n   \n")
	assert.Contains(t, out, "No input, type again")
	assert.Contains(t, out, "Choice invalid please type again")
	assert.Contains(t, out, "Input invalid, please try again")
	assert.NotContains(t, out, "Thanks for using")
}

func TestFrontend_StopsOnCanceledContext(t *testing.T) {
	b := NewBackend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := NewFrontend(b, strings.NewReader("q\n"), &out).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
