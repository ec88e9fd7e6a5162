package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/oarkflow/booksearch"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:  "booksearch",
		Usage: "search a book catalog by title word and rating",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Usage:   "catalog file (.json, .csv or .xml)",
				Value:   "books.xml",
				EnvVars: []string{"BOOKSEARCH_DATA"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "warn",
				EnvVars: []string{"BOOKSEARCH_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "write logs as JSON lines",
				EnvVars: []string{"BOOKSEARCH_LOG_JSON"},
			},
			&cli.IntFlag{
				Name:    "cache-size",
				Usage:   "number of title searches to cache, 0 disables the cache",
				Value:   128,
				EnvVars: []string{"BOOKSEARCH_CACHE_SIZE"},
			},
			&cli.BoolFlag{
				Name:    "skip-stop-words",
				Usage:   "index titles by their first word that is not a stop word",
				EnvVars: []string{"BOOKSEARCH_SKIP_STOP_WORDS"},
			},
			&cli.BoolFlag{
				Name:    "skip-invalid",
				Usage:   "skip malformed rows instead of failing the load",
				EnvVars: []string{"BOOKSEARCH_SKIP_INVALID"},
			},
		},
		Action: runRepl,
	}
	app.Commands = []*cli.Command{
		cmdRepl,
		cmdSearch,
		cmdTree,
		cmdStats,
	}
	return app.Run(args)
}

func newLogger(cctx *cli.Context) (*booksearch.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cctx.String("log-level")))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cctx.String("log-level"), err)
	}
	if cctx.Bool("log-json") {
		return booksearch.NewJSONLogger(os.Stderr, level), nil
	}
	return booksearch.NewTextLogger(os.Stderr, level), nil
}

// openBackend loads the catalog named by --data into a new backend.
func openBackend(cctx *cli.Context) (*booksearch.Backend, error) {
	logger, err := newLogger(cctx)
	if err != nil {
		return nil, err
	}
	loaderOpts := []booksearch.LoaderOption{booksearch.WithLoaderLogger(logger)}
	if cctx.Bool("skip-invalid") {
		loaderOpts = append(loaderOpts, booksearch.WithSkipInvalid())
	}
	books, err := booksearch.NewLoader(loaderOpts...).LoadFile(cctx.Context, cctx.String("data"))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cctx.String("data"), err)
	}
	opts := []booksearch.Options{
		booksearch.WithLogger(logger),
		booksearch.WithResultCache(cctx.Int("cache-size")),
	}
	if cctx.Bool("skip-stop-words") {
		analyzer := booksearch.NewTitleAnalyzer(booksearch.SkipLeadingStopWords())
		opts = append(opts, booksearch.WithTitleTokenizer(analyzer.Key))
	}
	backend := booksearch.NewBackend(opts...)
	if err := backend.AddBooks(books...); err != nil {
		return nil, err
	}
	return backend, nil
}

var cmdRepl = &cli.Command{
	Name:   "repl",
	Usage:  "interactive search session",
	Action: runRepl,
}

func runRepl(cctx *cli.Context) error {
	backend, err := openBackend(cctx)
	if err != nil {
		return err
	}
	return booksearch.NewFrontend(backend, os.Stdin, os.Stdout).Run(cctx.Context)
}
