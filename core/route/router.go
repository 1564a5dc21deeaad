// Package route selects the transformer and destination collection for a
// gazette file, builds the file's batch and hands it to the sink.
package route

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/rpipipe/core"
	"github.com/gaurav-prasanna/rpipipe/core/transform"
	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

var (
	// ErrUnknownType is returned for a file name without a known type code.
	ErrUnknownType = errors.New("route: unknown record type")
	// ErrUnsupportedFormat is returned for a file extension with no converter.
	ErrUnsupportedFormat = errors.New("route: unsupported file format")
)

// SinkError reports a failed bulk insert for one file.
type SinkError struct {
	File       string
	Collection string
	Err        error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("inserting %s into %s: %v", e.File, e.Collection, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// DefaultCollections maps each record type code to its collection.
var DefaultCollections = map[string]string{
	transform.Trademark.Code():            "marcas",
	transform.PatentApplication.Code():    "patentes",
	transform.SoftwareRegistration.Code(): "programas",
	transform.TechnologyContract.Code():   "contratos",
	transform.IndustrialDesign.Code():     "desenhos",
}

// TypeOf reads the record type from a file name such as "RM2790.xml" or
// "PC2790.json": the leading letters of the base name are the type code.
func TypeOf(fileName string) (transform.RecordType, error) {
	base := strings.ToUpper(filepath.Base(fileName))
	end := strings.IndexFunc(base, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(base)
	}
	t, ok := transform.ParseCode(base[:end])
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownType, fileName)
	}
	return t, nil
}

// Router dispatches documents to transformers and the sink.
type Router struct {
	normalizer  core.Normalizer
	sink        core.Sink
	collections map[string]string
	converters  map[string]core.Converter
	logger      *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithCollections overrides collection names by type code.
func WithCollections(c map[string]string) Option {
	return func(r *Router) {
		for code, name := range c {
			r.collections[code] = name
		}
	}
}

// WithConverter registers the converter used for files with extension ext.
func WithConverter(ext string, c core.Converter) Option {
	return func(r *Router) { r.converters[strings.ToLower(ext)] = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New creates a Router.
func New(n core.Normalizer, sink core.Sink, opts ...Option) *Router {
	r := &Router{
		normalizer:  n,
		sink:        sink,
		collections: make(map[string]string, len(DefaultCollections)),
		converters:  make(map[string]core.Converter),
		logger:      slog.New(slog.DiscardHandler),
	}
	for code, name := range DefaultCollections {
		r.collections[code] = name
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collection returns the collection for a record type.
func (r *Router) Collection(t transform.RecordType) string {
	return r.collections[t.Code()]
}

// RouteFile reads, converts and routes one file from disk.
func (r *Router) RouteFile(ctx context.Context, path string) (core.FileSummary, error) {
	ext := strings.ToLower(filepath.Ext(path))
	conv, ok := r.converters[ext]
	if !ok {
		return core.FileSummary{File: path}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return core.FileSummary{File: path}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := conv.Convert(f)
	if err != nil {
		return core.FileSummary{File: path}, fmt.Errorf("convert %s: %w", path, err)
	}
	return r.Route(ctx, filepath.Base(path), doc)
}

// Route normalizes doc, transforms it with the transformer for the type
// named by fileName and bulk-inserts the resulting batch. A file yields
// at most one error; on error nothing from the file is retained.
func (r *Router) Route(ctx context.Context, fileName string, doc tree.Node) (core.FileSummary, error) {
	summary := core.FileSummary{File: fileName}

	t, err := TypeOf(fileName)
	if err != nil {
		return summary, err
	}
	summary.Type = t.String()
	summary.Collection = r.Collection(t)

	canonical := r.normalizer.Normalize(doc)
	summary.Issue = transform.Issue(canonical)

	records, err := transform.For(t).Transform(canonical)
	if err != nil {
		return summary, fmt.Errorf("transform %s: %w", fileName, err)
	}

	batch := NewBatch(summary.Collection)
	batch.Append(records...)
	summary.Records = batch.Len()
	summary.Dispatches = dispatchCounts(records)

	if err := batch.Flush(ctx, r.sink); err != nil {
		return summary, &SinkError{File: fileName, Collection: summary.Collection, Err: err}
	}

	r.logger.Info("file routed",
		"file", fileName,
		"type", summary.Type,
		"collection", summary.Collection,
		"issue", summary.Issue,
		"records", summary.Records)
	return summary, nil
}

// dispatchCounts tallies dispatch labels: a process-level label for the
// dispatch-wrapped types, every dispatch-list entry for trademarks.
func dispatchCounts(records []tree.Node) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		if label, ok := rec.Get(transform.FieldDispatch).Str(); ok {
			counts[label]++
		}
		for _, d := range rec.Get("dispatch-list").Items() {
			if label, ok := d.Get(transform.FieldDispatch).Str(); ok {
				counts[label]++
			}
		}
	}
	return counts
}
