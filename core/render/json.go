// Package render: JSON renderer.
// Serializes the digest as indented JSON for machine consumption.
package render

import (
	"fmt"

	j "github.com/goccy/go-json"

	"github.com/gaurav-prasanna/rpipipe/core"
)

// JSONRenderer produces structured JSON output from a digest.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts the digest into indented JSON.
func (r *JSONRenderer) Render(d core.Digest) ([]byte, error) {
	if d.Files == nil {
		d.Files = []core.FileSummary{}
	}
	if d.Failures == nil {
		d.Failures = []core.FileFailure{}
	}
	data, err := j.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
