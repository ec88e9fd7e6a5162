package booksearch

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Options configures a Backend.
type Options func(*Backend)

// WithLogger sets the logger used for inserts and searches.
func WithLogger(logger *Logger) Options {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithResultCache keeps the last size title searches. Any AddBook purges it.
func WithResultCache(size int) Options {
	return func(b *Backend) {
		if size <= 0 {
			return
		}
		cache, err := lru.New[string, []*Book](size)
		if err != nil {
			return
		}
		b.cache = cache
	}
}

// WithTitleTokenizer replaces the function that turns a title, or a search
// word, into its title index key.
func WithTitleTokenizer(fn func(text string) string) Options {
	return func(b *Backend) {
		if fn != nil {
			b.titleKey = fn
		}
	}
}
