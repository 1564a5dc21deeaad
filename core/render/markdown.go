// Package render provides output renderers for the run digest.
// This file implements the Markdown renderer, which the PDF renderer also
// uses as its layout source.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gaurav-prasanna/rpipipe/core"
	"github.com/samber/lo"
)

// MarkdownRenderer writes the digest as a Markdown document.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the digest as Markdown bytes.
func (r *MarkdownRenderer) Render(d core.Digest) ([]byte, error) {
	return []byte(markdown(d)), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func markdown(d core.Digest) string {
	var b strings.Builder
	b.WriteString("# Gazette digest\n\n")
	if d.GeneratedAt != "" {
		fmt.Fprintf(&b, "Generated: %s\n\n", d.GeneratedAt)
	}
	total := lo.SumBy(d.Files, func(f core.FileSummary) int { return f.Records })
	fmt.Fprintf(&b, "Files: %d, records: %d, failures: %d\n\n", len(d.Files), total, len(d.Failures))

	for _, f := range d.Files {
		fmt.Fprintf(&b, "## %s\n\n", f.File)
		fmt.Fprintf(&b, "- Type: %s\n", f.Type)
		fmt.Fprintf(&b, "- Collection: %s\n", f.Collection)
		fmt.Fprintf(&b, "- Issue: %s\n", f.Issue)
		fmt.Fprintf(&b, "- Records: %d\n\n", f.Records)

		if len(f.Dispatches) == 0 {
			continue
		}
		b.WriteString("### Dispatches\n\n")
		for _, e := range rankDispatches(f.Dispatches) {
			fmt.Fprintf(&b, "- %s: %d\n", e.Key, e.Value)
		}
		b.WriteString("\n")
	}

	if len(d.Failures) > 0 {
		b.WriteString("## Failures\n\n")
		for _, f := range d.Failures {
			fmt.Fprintf(&b, "- %s: %s\n", f.File, f.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// rankDispatches orders dispatch labels by count, then label.
func rankDispatches(counts map[string]int) []lo.Entry[string, int] {
	entries := lo.Entries(counts)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}
