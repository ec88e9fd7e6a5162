package booksearch

import (
	"strings"

	"github.com/oarkflow/booksearch/utils"
)

// TitleAnalyzer derives title index keys. The default is the lower-cased
// first word, which is what NewBackend uses without one.
type TitleAnalyzer struct {
	stopWords map[string]struct{}
}

// TitleAnalyzerOption configures a TitleAnalyzer.
type TitleAnalyzerOption func(*TitleAnalyzer)

// SkipLeadingStopWords makes the key the first word that is not a stop
// word, so "The Hobbit" is indexed under "hobbit". With no words the default
// list is used.
func SkipLeadingStopWords(words ...string) TitleAnalyzerOption {
	return func(ta *TitleAnalyzer) {
		if len(words) == 0 {
			words = defaultStopWordList
		}
		ta.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			if w == "" {
				continue
			}
			ta.stopWords[utils.ToLower(w)] = struct{}{}
		}
	}
}

// NewTitleAnalyzer returns an analyzer configured by opts.
func NewTitleAnalyzer(opts ...TitleAnalyzerOption) *TitleAnalyzer {
	ta := &TitleAnalyzer{}
	for _, opt := range opts {
		opt(ta)
	}
	return ta
}

// Key returns the index key for text. A title made only of stop words falls
// back to its first word.
func (ta *TitleAnalyzer) Key(text string) string {
	if len(ta.stopWords) == 0 {
		return titleKey(text)
	}
	words := strings.Fields(text)
	for _, w := range words {
		w = utils.ToLower(w)
		if _, skip := ta.stopWords[w]; !skip {
			return w
		}
	}
	return titleKey(text)
}

var defaultStopWordList = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
	"to", "was", "will", "with", "this", "but", "they", "have", "had",
	"what", "said", "each", "which", "she", "do", "how", "their",
	"le", "la", "les", "el", "der", "die", "das",
}
