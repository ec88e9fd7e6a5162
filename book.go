package booksearch

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/oarkflow/booksearch/utils"
)

type GenericRecord map[string]any

// Book is an immutable record produced by the loader.
type Book struct {
	Title       string  `json:"title"`
	Authors     string  `json:"authors"`
	Rating      float64 `json:"average_rating"`
	Pages       int     `json:"num_pages"`
	RatingCount int     `json:"ratings_count"`
	ReviewCount int     `json:"text_reviews_count"`
	Language    string  `json:"language_code"`
}

// TitleKey is the title index key: the first word of the title, lower-cased.
func (b *Book) TitleKey() string {
	return titleKey(b.Title)
}

func titleKey(text string) string {
	return utils.ToLower(utils.FirstToken(text))
}

func (b *Book) IsSameLanguage(lang string) bool {
	return b.Language == lang
}

// Record exposes the book as a field map keyed by the json tag names, which
// is what rule based filters match against.
func (b *Book) Record() GenericRecord {
	return GenericRecord{
		"title":              b.Title,
		"authors":            b.Authors,
		"average_rating":     b.Rating,
		"num_pages":          b.Pages,
		"ratings_count":      b.RatingCount,
		"text_reviews_count": b.ReviewCount,
		"language_code":      b.Language,
	}
}

// Fingerprint hashes the fields that identify a row in a source file.
func (b *Book) Fingerprint() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(b.Title)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(b.Authors)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(b.Language)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.Itoa(b.Pages))
	return d.Sum64()
}

func (b *Book) String() string {
	var sb strings.Builder
	sb.WriteString("Title = " + b.Title + "\n")
	sb.WriteString("Number of Pages = " + strconv.Itoa(b.Pages) + "\n")
	sb.WriteString("Rating = " + formatFloat(b.Rating, 64) + "\n")
	sb.WriteString("Author = " + b.Authors + "\n")
	sb.WriteString("Total Rating = " + strconv.Itoa(b.RatingCount) + "\n")
	sb.WriteString("Total Reviews = " + strconv.Itoa(b.ReviewCount) + "\n")
	sb.WriteString("Language = " + b.Language)
	return sb.String()
}
