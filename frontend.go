package booksearch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	maxRating       = 5.0
	suggestionLimit = 10
	typoThreshold   = 2
)

const menu = `Command Menu:
	1) Search by [R]ating
	2) Search by [T]itle word
	3) [F]ilter by Number of Pages [FNP]
	4) [F]ilter by Language [FL]
	5) [F]ilter by Total Rating [FTR]
	6) Clear filter [CF]
	7) [Q]uit
	[S]uggest title words
	[W]here condition over all books
Choose a command from the menu above (number or letter in bracket): `

// Frontend is the interactive read, eval, print loop over a Backend.
type Frontend struct {
	backend *Backend
	in      *bufio.Scanner
	out     io.Writer
	filters *FilterChain
}

// NewFrontend returns a session reading commands from in and writing to out.
func NewFrontend(backend *Backend, in io.Reader, out io.Writer) *Frontend {
	return &Frontend{
		backend: backend,
		in:      bufio.NewScanner(in),
		out:     out,
		filters: NewFilterChain(),
	}
}

// Run processes commands until quit, end of input or ctx is done.
func (f *Frontend) Run(ctx context.Context) error {
	f.println("Welcome to the Book Searcher App!")
	f.println("==================================")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(f.out, menu)
		line, ok := f.readLine()
		if !ok {
			return f.in.Err()
		}
		switch cmd := strings.ToLower(strings.TrimSpace(line)); cmd {
		case "":
			f.println("No input, type again")
		case "r", "1":
			f.println("Choose a rating: ")
			f.ratingSearch()
		case "t", "2":
			f.println("Choose a word that you would like to search for: ")
			f.wordSearch()
		case "fnp", "3":
			f.println("Enter the number of pages that you'd like to filter:")
			f.readThreshold(f.filters.SetMaxPages)
		case "fl", "4":
			f.println("Enter the language you would like to filter: ")
			f.languageFilter()
		case "ftr", "5":
			f.println("Enter the number of total ratings that you'd like to filter:")
			f.readThreshold(f.filters.SetMinRatingCount)
		case "cf", "6":
			f.filters.Clear()
			f.println("Filter cleared")
		case "s":
			f.println("Enter the start of a title word: ")
			f.suggest()
		case "w":
			f.println("Enter a condition, for example language_code = 'eng': ")
			f.conditionSearch()
		case "q", "7":
			f.println("Thanks for using Book Searcher App")
			return nil
		default:
			f.println("Choice invalid please type again")
		}
	}
}

func (f *Frontend) readLine() (string, bool) {
	if !f.in.Scan() {
		return "", false
	}
	return f.in.Text(), true
}

func (f *Frontend) println(s string) {
	fmt.Fprintln(f.out, s)
}

func (f *Frontend) ratingSearch() {
	line, _ := f.readLine()
	rate, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil || rate != rate {
		f.println("please enter a number")
		return
	}
	if rate > maxRating {
		f.println("choose another rating")
		return
	}
	books, err := f.backend.SearchByRating(rate)
	if err != nil {
		f.println(err.Error())
		return
	}
	if books == nil {
		f.println("nothing found for this rating")
		return
	}
	f.displayBooks(books)
}

func (f *Frontend) wordSearch() {
	line, _ := f.readLine()
	word := strings.ToLower(strings.TrimSpace(line))
	if word == "" {
		f.println("Input invalid, please try again")
		return
	}
	books, err := f.backend.SearchByTitleWord(word)
	if err != nil {
		f.println(err.Error())
		return
	}
	if books == nil {
		f.println("nothing found for this title")
		if alt := f.backend.DidYouMean(word, typoThreshold); len(alt) > 0 {
			f.println("Did you mean: " + strings.Join(alt, ", ") + "?")
		}
		return
	}
	f.displayBooks(books)
}

func (f *Frontend) readThreshold(set func(int)) {
	line, _ := f.readLine()
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		f.println("please enter a number")
		return
	}
	set(n)
	f.println(f.filters.Describe())
}

func (f *Frontend) languageFilter() {
	line, _ := f.readLine()
	lang := strings.TrimSpace(line)
	if lang == "" {
		f.println("Input invalid, please try again")
		return
	}
	f.filters.AddLanguage(lang)
	f.println(f.filters.Describe())
}

func (f *Frontend) suggest() {
	line, _ := f.readLine()
	words := f.backend.Suggest(line, suggestionLimit)
	if len(words) == 0 {
		f.println("no suggestions")
		return
	}
	f.println(strings.Join(words, ", "))
}

func (f *Frontend) conditionSearch() {
	line, _ := f.readLine()
	books, err := f.backend.FilterByCondition(line, f.backend.Books())
	if err != nil {
		f.println(err.Error())
		return
	}
	f.displayBooks(books)
}

// displayBooks applies the session filters and prints what is left.
func (f *Frontend) displayBooks(books []*Book) {
	filtered, err := f.filters.Apply(f.backend, books)
	if err != nil {
		f.println(err.Error())
		return
	}
	fmt.Fprintf(f.out, "Found %d/%d matches.\n", len(filtered), f.backend.NumberOfBooks())
	for i, book := range filtered {
		fmt.Fprintf(f.out, "%d. %s\n\tWritten by: %s\n\tAverage rating: %s/5\n\tNumber of Pages: %d\n\tRating counts: %d\n",
			i+1, book.Title, book.Authors, formatFloat(book.Rating, 64), book.Pages, book.RatingCount)
	}
}
