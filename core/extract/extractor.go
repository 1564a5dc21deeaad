// Package extract implements the Extractor interface.
// It unpacks an issue archive (e.g. RM2790.zip) into the work directory:
//  1. Every .xml entry is written as <archive name>.xml (RM2790.xml)
//  2. The archive is removed once its content is in place
package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDocument is returned for an archive without any XML entry.
var ErrNoDocument = errors.New("extract: archive holds no XML document")

// ZipExtractor extracts gazette archives.
type ZipExtractor struct {
	// KeepArchive leaves the archive in place after extraction.
	KeepArchive bool
}

// New creates a ZipExtractor.
func New() *ZipExtractor {
	return &ZipExtractor{}
}

// Extract writes the XML documents of archivePath into destDir and returns
// their paths. Archives carrying several documents get a numeric suffix
// from the second one on (RM2790-2.xml).
func (e *ZipExtractor) Extract(archivePath, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}

	stem := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	var written []string
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(entry.Name), ".xml") {
			continue
		}
		name := stem + ".xml"
		if len(written) > 0 {
			name = fmt.Sprintf("%s-%d.xml", stem, len(written)+1)
		}
		dest := filepath.Join(destDir, name)
		if err := writeEntry(entry, dest); err != nil {
			zr.Close()
			return written, err
		}
		written = append(written, dest)
	}
	if err := zr.Close(); err != nil {
		return written, fmt.Errorf("closing archive %s: %w", archivePath, err)
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, archivePath)
	}
	if !e.KeepArchive {
		if err := os.Remove(archivePath); err != nil {
			return written, fmt.Errorf("removing archive %s: %w", archivePath, err)
		}
	}
	return written, nil
}

// writeEntry copies one entry to dest, replacing any existing file.
func writeEntry(entry *zip.File, dest string) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return out.Close()
}
