package booksearch

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-reflect"
	"github.com/oarkflow/json"
	"github.com/oarkflow/squealx"
	"github.com/oarkflow/squealx/connection"
	"github.com/oarkflow/xid"

	"github.com/oarkflow/booksearch/utils"
)

const (
	fieldTitle       = "title"
	fieldAuthors     = "authors"
	fieldRating      = "average_rating"
	fieldLanguage    = "language_code"
	fieldPages       = "num_pages"
	fieldRatingCount = "ratings_count"
	fieldReviewCount = "text_reviews_count"
)

// xmlColumns maps the spreadsheet style Row attributes to record fields.
var xmlColumns = map[string]string{
	"B": fieldTitle,
	"C": fieldAuthors,
	"D": fieldRating,
	"G": fieldLanguage,
	"H": fieldPages,
	"I": fieldRatingCount,
}

// DBRequest loads the rows Query returns from an open connection.
type DBRequest struct {
	DB    *squealx.DB
	Query string
}

// DBConfig opens a connection and loads the rows Query returns.
type DBConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Driver   string `json:"driver"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Query    string `json:"query"`
}

type LoaderOption func(*Loader)

func WithLoaderLogger(logger *Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSkipInvalid logs and skips malformed rows instead of failing the load.
func WithSkipInvalid() LoaderOption {
	return func(l *Loader) {
		l.skipInvalid = true
	}
}

// Loader turns JSON, CSV, XML, database rows or Go values into books.
type Loader struct {
	logger      *Logger
	skipInvalid bool
}

// NewLoader returns a loader configured by opts.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: NoopLogger()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load dispatches on the input type: a JSON array as string or bytes, a file
// path, an io.Reader of JSON, a DBRequest or DBConfig, records, or any slice
// of structs.
func (l *Loader) Load(ctx context.Context, input any) ([]*Book, error) {
	switch v := input.(type) {
	case string:
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			return l.LoadJSON(ctx, strings.NewReader(v))
		}
		return l.LoadFile(ctx, v)
	case []byte:
		return l.LoadJSON(ctx, bytes.NewReader(v))
	case io.Reader:
		return l.LoadJSON(ctx, v)
	case DBRequest:
		return l.LoadFromDatabase(ctx, v)
	case DBConfig:
		return l.LoadFromConfig(ctx, v)
	case []GenericRecord:
		return l.LoadRecords(ctx, v)
	case []map[string]any:
		records := make([]GenericRecord, len(v))
		for i, row := range v {
			records[i] = row
		}
		return l.LoadRecords(ctx, records)
	default:
		if reflect.ValueOf(v).Kind() == reflect.Slice {
			return l.LoadStructs(ctx, v)
		}
	}
	return nil, fmt.Errorf("%w: unsupported input type %T", ErrInvalidArgument, input)
}

// LoadFile picks the format from the file extension.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return l.loadJSON(ctx, path, file)
	case ".csv":
		return l.loadCSV(ctx, path, file)
	case ".xml":
		return l.loadXML(ctx, path, file)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalidArgument, ext)
	}
}

// LoadJSON reads a JSON array of book objects.
func (l *Loader) LoadJSON(ctx context.Context, r io.Reader) ([]*Book, error) {
	return l.loadJSON(ctx, "json", r)
}

func (l *Loader) loadJSON(ctx context.Context, source string, r io.Reader) ([]*Book, error) {
	run := l.newRun(ctx, source)
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	tok, err := decoder.Token()
	if err != nil {
		return run.finish(fmt.Errorf("failed to read JSON token: %w", err))
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return run.finish(fmt.Errorf("%w: expected JSON array, got %v", ErrInvalidArgument, tok))
	}
	for row := 0; decoder.More(); row++ {
		var rec GenericRecord
		if err := decoder.Decode(&rec); err != nil {
			return run.finish(fmt.Errorf("row %d: %w", row, err))
		}
		if err := run.add(row, rec); err != nil {
			return run.finish(err)
		}
	}
	return run.finish(nil)
}

// LoadCSV reads a CSV file whose header names the book fields.
func (l *Loader) LoadCSV(ctx context.Context, r io.Reader) ([]*Book, error) {
	return l.loadCSV(ctx, "csv", r)
}

func (l *Loader) loadCSV(ctx context.Context, source string, r io.Reader) ([]*Book, error) {
	run := l.newRun(ctx, source)
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return run.finish(fmt.Errorf("failed to read CSV header: %w", err))
	}
	for i, name := range header {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	for row := 1; ; row++ {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return run.finish(err)
		}
		rec := make(GenericRecord, len(header))
		for i, name := range header {
			if i < len(cells) {
				rec[name] = cells[i]
			}
		}
		if err := run.add(row, rec); err != nil {
			return run.finish(err)
		}
	}
	return run.finish(nil)
}

// LoadXML reads Row elements whose attributes B, C, D, G, H and I carry the
// title, authors, rating, language, pages and rating count. The first Row
// is the header and is skipped.
func (l *Loader) LoadXML(ctx context.Context, r io.Reader) ([]*Book, error) {
	return l.loadXML(ctx, "xml", r)
}

func (l *Loader) loadXML(ctx context.Context, source string, r io.Reader) ([]*Book, error) {
	run := l.newRun(ctx, source)
	decoder := xml.NewDecoder(r)
	row := 0
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return run.finish(fmt.Errorf("row %d: %w", row, err))
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Row" {
			continue
		}
		row++
		if row == 1 {
			continue
		}
		rec := make(GenericRecord, len(xmlColumns))
		for _, attr := range start.Attr {
			if field, ok := xmlColumns[attr.Name.Local]; ok {
				rec[field] = attr.Value
			}
		}
		if err := run.add(row-1, rec); err != nil {
			return run.finish(err)
		}
	}
	return run.finish(nil)
}

// LoadFromDatabase runs req.Query and turns every row into a book.
func (l *Loader) LoadFromDatabase(ctx context.Context, req DBRequest) ([]*Book, error) {
	if req.DB == nil {
		return nil, fmt.Errorf("%w: no database provided", ErrInvalidArgument)
	}
	if req.Query == "" {
		return nil, fmt.Errorf("%w: no query provided", ErrInvalidArgument)
	}
	run := l.newRun(ctx, "database")
	var data []map[string]any
	if err := req.DB.Select(&data, req.Query); err != nil {
		return run.finish(err)
	}
	for row, rec := range data {
		if err := run.add(row, rec); err != nil {
			return run.finish(err)
		}
	}
	return run.finish(nil)
}

// LoadFromConfig connects with cfg and streams the rows of cfg.Query.
func (l *Loader) LoadFromConfig(ctx context.Context, cfg DBConfig) ([]*Book, error) {
	if cfg.Query == "" {
		return nil, fmt.Errorf("%w: no query provided", ErrInvalidArgument)
	}
	db, _, err := connection.FromConfig(squealx.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Driver:   cfg.Driver,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	run := l.newRun(ctx, cfg.Driver+":"+cfg.Database)
	row := 0
	err = squealx.SelectEach(db, func(rec map[string]any) error {
		defer func() { row++ }()
		return run.add(row, rec)
	}, cfg.Query)
	return run.finish(err)
}

// LoadRecords converts already decoded rows.
func (l *Loader) LoadRecords(ctx context.Context, records []GenericRecord) ([]*Book, error) {
	run := l.newRun(ctx, "records")
	for row, rec := range records {
		if err := run.add(row, rec); err != nil {
			return run.finish(err)
		}
	}
	return run.finish(nil)
}

// LoadStructs converts every element of slice through its JSON form, so
// struct fields are matched by their json tags.
func (l *Loader) LoadStructs(ctx context.Context, slice any) ([]*Book, error) {
	v := reflect.ValueOf(slice)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: not a slice", ErrInvalidArgument)
	}
	records := make([]GenericRecord, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		b, err := json.Marshal(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("error marshalling element %d: %w", i, err)
		}
		var rec GenericRecord
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("error unmarshalling element %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return l.LoadRecords(ctx, records)
}

// BookFromRecord builds a book from a field map keyed by the json field
// names. Numeric fields must be present and well formed, except
// text_reviews_count which defaults to zero.
func BookFromRecord(rec GenericRecord) (*Book, error) {
	book := &Book{
		Title:    strings.TrimSpace(utils.ToString(rec[fieldTitle])),
		Authors:  strings.TrimSpace(utils.ToString(rec[fieldAuthors])),
		Language: strings.TrimSpace(utils.ToString(rec[fieldLanguage])),
	}
	var err error
	if book.Rating, err = floatField(rec, fieldRating); err != nil {
		return nil, err
	}
	if book.Pages, err = intField(rec, fieldPages); err != nil {
		return nil, err
	}
	if book.RatingCount, err = intField(rec, fieldRatingCount); err != nil {
		return nil, err
	}
	if _, ok := rec[fieldReviewCount]; ok {
		if book.ReviewCount, err = intField(rec, fieldReviewCount); err != nil {
			return nil, err
		}
	}
	return book, nil
}

func floatField(rec GenericRecord, field string) (float64, error) {
	val, ok := rec[field]
	if !ok || val == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidArgument, field)
	}
	f, err := utils.ToFloat(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, field, err)
	}
	if f != f {
		return 0, fmt.Errorf("%w: %s is NaN", ErrInvalidArgument, field)
	}
	return f, nil
}

func intField(rec GenericRecord, field string) (int, error) {
	val, ok := rec[field]
	if !ok || val == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidArgument, field)
	}
	n, err := utils.ToInt(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, field, err)
	}
	return n, nil
}

// loadRun collects the books of one load and tags its log lines with a run
// id.
type loadRun struct {
	ctx         context.Context
	log         *Logger
	source      string
	skipInvalid bool
	books       []*Book
	seen        map[uint64]int
	duplicates  int
}

func (l *Loader) newRun(ctx context.Context, source string) *loadRun {
	runID := xid.New().String()
	log := l.logger.WithRunID(runID)
	log.DebugContext(ctx, "load started", "source", source)
	return &loadRun{
		ctx:         ctx,
		log:         log,
		source:      source,
		skipInvalid: l.skipInvalid,
		seen:        make(map[uint64]int),
	}
}

func (r *loadRun) add(row int, rec GenericRecord) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	book, err := BookFromRecord(rec)
	if err != nil {
		err = fmt.Errorf("row %d: %w", row, err)
		if r.skipInvalid {
			r.log.WarnContext(r.ctx, "skipping row", "row", row, "error", err)
			return nil
		}
		return err
	}
	fp := book.Fingerprint()
	if first, ok := r.seen[fp]; ok {
		r.duplicates++
		r.log.WarnContext(r.ctx, "duplicate row",
			"row", row,
			"first_row", first,
			"title", book.Title,
		)
	} else {
		r.seen[fp] = row
	}
	r.books = append(r.books, book)
	return nil
}

func (r *loadRun) finish(err error) ([]*Book, error) {
	r.log.LogLoad(r.ctx, r.source, len(r.books), r.duplicates, err)
	if err != nil {
		return nil, err
	}
	return r.books, nil
}
