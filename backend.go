package booksearch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oarkflow/filters"

	"github.com/oarkflow/booksearch/trie"
	"github.com/oarkflow/booksearch/utils"
)

const (
	titleIndexName  = "title"
	ratingIndexName = "rating"
)

// Backend keeps every book in two indexes, one keyed by the first word of
// the title and one keyed by the average rating, and answers searches and
// filters over them.
//
// Backend is not safe for concurrent use.
type Backend struct {
	titles   *SortedIndex[string, *Book]
	ratings  *SortedIndex[float64, *Book]
	keys     *trie.Trie[int]
	count    int
	logger   *Logger
	cache    *lru.Cache[string, []*Book]
	titleKey func(text string) string
}

// NewBackend returns an empty backend configured by opts.
func NewBackend(opts ...Options) *Backend {
	b := &Backend{
		titles:   NewSortedIndex[string, *Book](),
		ratings:  NewSortedIndex[float64, *Book](),
		keys:     trie.NewTrie[int](),
		logger:   NoopLogger(),
		titleKey: titleKey,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddBook indexes book by title key and by rating. A nil book or a book with
// a blank title is ignored.
func (b *Backend) AddBook(book *Book) error {
	if book == nil || strings.TrimSpace(book.Title) == "" {
		return nil
	}
	ctx := context.Background()
	err := b.addBook(book)
	b.logger.LogInsert(ctx, book.Title, book.Rating, err)
	return err
}

func (b *Backend) addBook(book *Book) error {
	key := b.titleKey(book.Title)
	if key == "" {
		return fmt.Errorf("%w: title %q has no index key", ErrInvalidArgument, book.Title)
	}
	if book.Rating != book.Rating {
		return fmt.Errorf("%w: book %q has no rating", ErrInvalidArgument, book.Title)
	}
	// Reject up front what the rating index would reject, so the title
	// index is never left holding a book the rating index refused.
	if held, ok := b.ratings.Get(book.Rating); ok && len(held) == 1 && held[0] == book {
		return fmt.Errorf("%w: book %q already indexed", ErrDuplicateValue, book.Title)
	}
	if err := b.titles.Insert(key, book); err != nil {
		return err
	}
	if err := b.ratings.Insert(book.Rating, book); err != nil {
		return err
	}
	n, _ := b.keys.Get(key)
	b.keys.Insert(key, n+1)
	b.count++
	if b.cache != nil {
		b.cache.Purge()
	}
	return nil
}

// AddBooks adds books in order and stops at the first failure.
func (b *Backend) AddBooks(books ...*Book) error {
	for i, book := range books {
		if err := b.AddBook(book); err != nil {
			return fmt.Errorf("book %d: %w", i, err)
		}
	}
	return nil
}

// NumberOfBooks returns the number of successful AddBook calls.
func (b *Backend) NumberOfBooks() int {
	return b.count
}

// Books returns every indexed book in ascending rating order.
func (b *Backend) Books() []*Book {
	out := make([]*Book, 0, b.count)
	for _, books := range b.ratings.All() {
		out = append(out, books...)
	}
	return out
}

// TitleIndex exposes the index keyed by title word.
func (b *Backend) TitleIndex() *SortedIndex[string, *Book] {
	return b.titles
}

// RatingIndex exposes the index keyed by average rating.
func (b *Backend) RatingIndex() *SortedIndex[float64, *Book] {
	return b.ratings
}

// SearchByTitleWord returns the books whose title key contains the key of
// word. A miss in the title index yields nil and no error.
func (b *Backend) SearchByTitleWord(word string) ([]*Book, error) {
	target := b.titleKey(word)
	if target == "" {
		return nil, fmt.Errorf("%w: empty title word", ErrInvalidArgument)
	}
	ctx := context.Background()
	if b.cache != nil {
		if hit, ok := b.cache.Get(target); ok {
			return append([]*Book(nil), hit...), nil
		}
	}
	raw, err := b.titles.Search(target)
	if errors.Is(err, ErrNotFound) {
		b.logger.LogSearch(ctx, titleIndexName, target, 0, nil)
		return nil, nil
	}
	if err != nil {
		b.logger.LogSearch(ctx, titleIndexName, target, 0, err)
		return nil, err
	}
	result := make([]*Book, 0, len(raw))
	for _, book := range raw {
		if strings.Contains(b.titleKey(book.Title), target) {
			result = append(result, book)
		}
	}
	b.logger.LogSearch(ctx, titleIndexName, target, len(result), nil)
	if b.cache != nil {
		b.cache.Add(target, result)
		return append([]*Book(nil), result...), nil
	}
	return result, nil
}

// SearchByRating returns the books rated exactly rate. A miss yields nil and
// no error.
func (b *Backend) SearchByRating(rate float64) ([]*Book, error) {
	ctx := context.Background()
	raw, err := b.ratings.Search(rate)
	if errors.Is(err, ErrNotFound) {
		b.logger.LogSearch(ctx, ratingIndexName, rate, 0, nil)
		return nil, nil
	}
	if err != nil {
		b.logger.LogSearch(ctx, ratingIndexName, rate, 0, err)
		return nil, err
	}
	result := make([]*Book, 0, len(raw))
	for _, book := range raw {
		if book.Rating == rate {
			result = append(result, book)
		}
	}
	b.logger.LogSearch(ctx, ratingIndexName, rate, len(result), nil)
	return result, nil
}

// FilterByLanguage keeps the books whose language code equals lang
// (case-sensitive). An empty lang or list is an error.
func (b *Backend) FilterByLanguage(lang string, list []*Book) ([]*Book, error) {
	if lang == "" {
		return nil, fmt.Errorf("%w: empty language", ErrInvalidArgument)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: nothing to filter", ErrInvalidArgument)
	}
	return keep(list, func(book *Book) bool {
		return book.IsSameLanguage(lang)
	}), nil
}

// FilterByMinRatingCount keeps the books with more than threshold ratings.
// An empty list yields nil.
func (b *Backend) FilterByMinRatingCount(threshold int, list []*Book) []*Book {
	if len(list) == 0 {
		return nil
	}
	return keep(list, func(book *Book) bool {
		return book.RatingCount > threshold
	})
}

// FilterByMaxPages keeps the books with fewer than threshold pages. An empty
// list yields nil.
func (b *Backend) FilterByMaxPages(threshold int, list []*Book) []*Book {
	if len(list) == 0 {
		return nil
	}
	return keep(list, func(book *Book) bool {
		return book.Pages < threshold
	})
}

// Condition is one field comparison evaluated against Book.Record.
type Condition struct {
	Field    string           `json:"field"`
	Operator filters.Operator `json:"operator"`
	Value    any              `json:"value"`
	Reverse  bool             `json:"reverse"`
}

// FilterByConditions keeps the books matching conds joined by match ("AND"
// or "OR"). An empty list yields nil; no conditions returns list unchanged.
func (b *Backend) FilterByConditions(match string, list []*Book, conds ...Condition) ([]*Book, error) {
	if len(list) == 0 {
		return nil, nil
	}
	if len(conds) == 0 {
		return append([]*Book(nil), list...), nil
	}
	match = strings.ToUpper(strings.TrimSpace(match))
	switch match {
	case "":
		match = "AND"
	case "AND", "OR":
	default:
		return nil, fmt.Errorf("%w: unknown match %q", ErrInvalidArgument, match)
	}
	var fil []filters.Condition
	for _, c := range conds {
		if c.Field == "" {
			return nil, fmt.Errorf("%w: condition without field", ErrInvalidArgument)
		}
		fil = append(fil, &filters.Filter{
			Field:    c.Field,
			Operator: c.Operator,
			Value:    c.Value,
			Reverse:  c.Reverse,
		})
	}
	rule := filters.NewRule()
	rule.AddCondition(filters.Boolean(match), false, fil...)
	return matchRule(rule, list), nil
}

// FilterByCondition keeps the books matching a SQL style condition such as
// "language_code = 'eng'".
func (b *Backend) FilterByCondition(condition string, list []*Book) ([]*Book, error) {
	if strings.TrimSpace(condition) == "" {
		return nil, fmt.Errorf("%w: empty condition", ErrInvalidArgument)
	}
	rule, err := filters.ParseSQL(condition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	if rule == nil {
		return append([]*Book(nil), list...), nil
	}
	return matchRule(rule, list), nil
}

func matchRule(rule *filters.Rule, list []*Book) []*Book {
	return keep(list, func(book *Book) bool {
		return rule.Match(book.Record())
	})
}

func keep(list []*Book, pred func(*Book) bool) []*Book {
	out := make([]*Book, 0, len(list))
	for _, book := range list {
		if book != nil && pred(book) {
			out = append(out, book)
		}
	}
	return out
}

// Suggest returns up to limit title keys starting with the key of prefix,
// in byte order. limit <= 0 means no limit.
func (b *Backend) Suggest(prefix string, limit int) []string {
	target := b.titleKey(prefix)
	if target == "" {
		return nil
	}
	var out []string
	b.keys.WalkPrefix(target, func(key string, _ int) bool {
		out = append(out, key)
		return limit <= 0 || len(out) < limit
	})
	return out
}

// DidYouMean returns the title keys within threshold edits of word, closest
// first.
func (b *Backend) DidYouMean(word string, threshold int) []string {
	target := b.titleKey(word)
	if target == "" || threshold < 0 {
		return nil
	}
	type candidate struct {
		key  string
		dist int
	}
	var found []candidate
	for key := range b.titles.Keys() {
		if d := utils.BoundedLevenshtein(target, key, threshold); d <= threshold {
			found = append(found, candidate{key: key, dist: d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].dist < found[j].dist
	})
	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.key
	}
	return out
}

// Stats reports index sizes and, when enabled, the result cache size.
func (b *Backend) Stats() map[string]any {
	stats := map[string]any{
		"total_books":  b.count,
		"title_keys":   b.titles.Size(),
		"rating_keys":  b.ratings.Size(),
		"title_values": b.titles.ValueCount(),
		"cache":        b.cache != nil,
	}
	if b.cache != nil {
		stats["cached_searches"] = b.cache.Len()
	}
	return stats
}
