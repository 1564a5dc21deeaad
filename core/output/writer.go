// Package output implements a filesystem sink for rpipipe.
// Each collection is a JSON Lines file (<collection>.jsonl) in the output
// directory; a batch is appended with a single write.
package output

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

const maxLine = 16 << 20

// Writer writes record batches to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Path returns the file backing a collection.
func (w *Writer) Path(collection string) string {
	return filepath.Join(w.OutputDir, sanitize(collection)+".jsonl")
}

// InsertMany appends records to the collection file, one JSON object per
// line. Encoding happens before the file is touched, so a record that
// fails to encode leaves the file unchanged.
func (w *Writer) InsertMany(_ context.Context, collection string, records []tree.Node) error {
	var buf bytes.Buffer
	for i, rec := range records {
		line, err := rec.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	path := w.Path(collection)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return f.Close()
}

// LastIssue scans the collection file for the greatest issue label.
func (w *Writer) LastIssue(_ context.Context, collection string) (string, error) {
	path := w.Path(collection)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var last string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		rec, err := tree.ParseJSON(sc.Bytes())
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		if issue, ok := rec.Get("issue").Str(); ok && issue > last {
			last = issue
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return last, nil
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b []rune
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' {
			b = append(b, ch)
		} else {
			b = append(b, '_')
		}
	}
	return string(b)
}
