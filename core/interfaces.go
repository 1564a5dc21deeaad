// Package core defines the pipeline interfaces for rpipipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"io"

	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

// FetchResult holds the body and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       []byte
}

// FileSummary describes one ingested gazette file.
type FileSummary struct {
	File       string         `json:"file"`
	Type       string         `json:"type"`
	Collection string         `json:"collection"`
	Issue      string         `json:"issue"`
	Records    int            `json:"records"`
	Dispatches map[string]int `json:"dispatches"`
}

// FileFailure records a file whose processing failed.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Digest is the report of one ingestion run.
type Digest struct {
	GeneratedAt string        `json:"generated_at"` // ISO8601
	Files       []FileSummary `json:"files"`
	Failures    []FileFailure `json:"failures"`
}

// Fetcher retrieves a resource from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Downloader stores a remote resource in a local file.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Extractor unpacks a publication archive and returns the XML files it wrote.
type Extractor interface {
	Extract(archivePath, destDir string) ([]string, error)
}

// Converter parses a source document into the raw node model.
type Converter interface {
	Convert(r io.Reader) (tree.Node, error)
}

// Normalizer applies the document-wide passes (pruning, renaming).
type Normalizer interface {
	Normalize(doc tree.Node) tree.Node
}

// Transformer extracts the output records of one record type from a
// normalized document.
type Transformer interface {
	Transform(doc tree.Node) ([]tree.Node, error)
}

// Sink is the document store receiving record batches.
type Sink interface {
	// InsertMany inserts all records or reports a failure for the batch.
	InsertMany(ctx context.Context, collection string, records []tree.Node) error
	// LastIssue returns the greatest issue label stored in collection,
	// or "" when it is empty.
	LastIssue(ctx context.Context, collection string) (string, error)
}

// Renderer converts a run digest into a final output format.
type Renderer interface {
	Render(d Digest) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
