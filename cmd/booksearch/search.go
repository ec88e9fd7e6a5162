package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oarkflow/json"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/booksearch"
)

var cmdSearch = &cli.Command{
	Name:  "search",
	Usage: "one-shot search by title word or rating",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "title",
			Usage: "title word",
		},
		&cli.Float64Flag{
			Name:  "rating",
			Usage: "exact average rating",
		},
		&cli.StringSliceFlag{
			Name:  "language",
			Usage: "keep only these language codes, applied in order",
		},
		&cli.IntFlag{
			Name:  "min-ratings",
			Usage: "keep books with more ratings than this",
			Value: -1,
		},
		&cli.IntFlag{
			Name:  "max-pages",
			Usage: "keep books with fewer pages than this",
			Value: -1,
		},
		&cli.StringFlag{
			Name:  "where",
			Usage: "SQL style condition over book fields, e.g. \"num_pages > 300\"",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print results as JSON",
		},
	},
	Action: func(cctx *cli.Context) error {
		if !cctx.IsSet("title") && !cctx.IsSet("rating") && !cctx.IsSet("where") {
			return errors.New("one of --title, --rating or --where is required")
		}
		backend, err := openBackend(cctx)
		if err != nil {
			return err
		}
		var books []*booksearch.Book
		switch {
		case cctx.IsSet("title"):
			books, err = backend.SearchByTitleWord(cctx.String("title"))
		case cctx.IsSet("rating"):
			books, err = backend.SearchByRating(cctx.Float64("rating"))
		default:
			books = backend.Books()
		}
		if err != nil {
			return err
		}
		if where := cctx.String("where"); where != "" && len(books) > 0 {
			if books, err = backend.FilterByCondition(where, books); err != nil {
				return err
			}
		}

		chain := booksearch.NewFilterChain()
		for _, lang := range cctx.StringSlice("language") {
			chain.AddLanguage(lang)
		}
		if n := cctx.Int("min-ratings"); n >= 0 {
			chain.SetMinRatingCount(n)
		}
		if n := cctx.Int("max-pages"); n >= 0 {
			chain.SetMaxPages(n)
		}
		if len(books) > 0 {
			if books, err = chain.Apply(backend, books); err != nil {
				return err
			}
		}

		if cctx.Bool("json") {
			if books == nil {
				books = []*booksearch.Book{}
			}
			out, err := json.Marshal(books)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		}
		fmt.Fprintf(os.Stdout, "Found %d/%d matches.\n", len(books), backend.NumberOfBooks())
		for i, book := range books {
			fmt.Fprintf(os.Stdout, "%d. %s\n", i+1, book)
		}
		return nil
	},
}

var cmdTree = &cli.Command{
	Name:  "tree",
	Usage: "print the shape of an index",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "index",
			Usage: "title or rating",
			Value: "title",
		},
		&cli.BoolFlag{
			Name:  "levels",
			Usage: "print level order and in order keys instead of the tree",
		},
	},
	Action: func(cctx *cli.Context) error {
		backend, err := openBackend(cctx)
		if err != nil {
			return err
		}
		var dump, levels string
		var verr error
		switch cctx.String("index") {
		case "title":
			idx := backend.TitleIndex()
			dump, levels, verr = idx.Dump(), idx.String(), idx.Validate()
		case "rating":
			idx := backend.RatingIndex()
			dump, levels, verr = idx.Dump(), idx.String(), idx.Validate()
		default:
			return fmt.Errorf("unknown index %q", cctx.String("index"))
		}
		if verr != nil {
			return verr
		}
		if cctx.Bool("levels") {
			fmt.Fprintln(os.Stdout, levels)
			return nil
		}
		fmt.Fprint(os.Stdout, dump)
		return nil
	},
}

var cmdStats = &cli.Command{
	Name:  "stats",
	Usage: "print index statistics as JSON",
	Action: func(cctx *cli.Context) error {
		backend, err := openBackend(cctx)
		if err != nil {
			return err
		}
		out, err := json.Marshal(backend.Stats())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}
