package booksearch

import (
	"strconv"
	"strings"
)

// FilterChain accumulates the filters a session applies to every result
// list: any number of languages, one minimum rating count and one maximum
// page count.
type FilterChain struct {
	languages      []string
	minRatingCount *int
	maxPages       *int
}

// NewFilterChain returns a chain with no filters set.
func NewFilterChain() *FilterChain {
	return &FilterChain{}
}

// AddLanguage appends lang. Languages apply one after another, so two
// different languages leave nothing.
func (fc *FilterChain) AddLanguage(lang string) {
	fc.languages = append(fc.languages, lang)
}

// SetMinRatingCount keeps the stricter (larger) of the current and new
// threshold.
func (fc *FilterChain) SetMinRatingCount(threshold int) {
	if fc.minRatingCount == nil || *fc.minRatingCount <= threshold {
		fc.minRatingCount = &threshold
	}
}

// SetMaxPages keeps the stricter (smaller) of the current and new threshold.
func (fc *FilterChain) SetMaxPages(threshold int) {
	if fc.maxPages == nil || *fc.maxPages >= threshold {
		fc.maxPages = &threshold
	}
}

// Clear drops every filter.
func (fc *FilterChain) Clear() {
	fc.languages = nil
	fc.minRatingCount = nil
	fc.maxPages = nil
}

// IsEmpty reports whether no filter is set.
func (fc *FilterChain) IsEmpty() bool {
	return len(fc.languages) == 0 && fc.minRatingCount == nil && fc.maxPages == nil
}

// Apply runs the language filters, then the rating count filter, then the
// page filter. Once the list is empty the remaining filters are skipped.
func (fc *FilterChain) Apply(b *Backend, list []*Book) ([]*Book, error) {
	out := list
	for _, lang := range fc.languages {
		if len(out) == 0 {
			return []*Book{}, nil
		}
		filtered, err := b.FilterByLanguage(lang, out)
		if err != nil {
			return nil, err
		}
		out = filtered
	}
	if fc.minRatingCount != nil {
		out = b.FilterByMinRatingCount(*fc.minRatingCount, out)
	}
	if fc.maxPages != nil {
		out = b.FilterByMaxPages(*fc.maxPages, out)
	}
	if out == nil {
		out = []*Book{}
	}
	return out, nil
}

// Describe renders the active filters as one sentence.
func (fc *FilterChain) Describe() string {
	var sb strings.Builder
	sb.WriteString("Filter success, now it will only return")
	if len(fc.languages) > 0 {
		sb.WriteString(" language in ")
		sb.WriteString(strings.Join(fc.languages, ", "))
	}
	if fc.maxPages != nil {
		sb.WriteString(", number of pages < ")
		sb.WriteString(strconv.Itoa(*fc.maxPages))
	}
	if fc.minRatingCount != nil {
		sb.WriteString(", total rating > ")
		sb.WriteString(strconv.Itoa(*fc.minRatingCount))
	}
	return sb.String()
}
