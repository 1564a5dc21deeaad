// Package render: PDF renderer.
// Lays out the Markdown digest with gofpdf. Dispatch frequencies become
// two-column rows and every page carries a footer with the page number.
// UTF-8 text is translated to the core fonts' code page so accented names
// survive.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/rpipipe/core"
	"github.com/jung-kurt/gofpdf"
)

// countLine matches a "- label: n" bullet.
var countLine = regexp.MustCompile(`^- (.+): (\d+)$`)

// PDFRenderer renders the digest as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the digest into PDF bytes.
func (r *PDFRenderer) Render(d core.Digest) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Gazette digest", true)
	pdf.SetCreator("rpipipe", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	inDispatches := false
	for _, line := range strings.Split(markdown(d), "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			pdf.Ln(2)

		case strings.HasPrefix(line, "#"):
			level := len(line) - len(strings.TrimLeft(line, "#"))
			title := strings.TrimSpace(line[level:])
			inDispatches = title == "Dispatches"
			renderHeading(pdf, tr(title), level)

		case inDispatches && countLine.MatchString(line):
			m := countLine.FindStringSubmatch(line)
			renderCount(pdf, tr(m[1]), m[2])

		case strings.HasPrefix(line, "- "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+strings.TrimSpace(line[2:])), "", "L", false)

		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 14, 3: 12}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(1)
}

// renderCount writes one dispatch label with its count right-aligned.
func renderCount(pdf *gofpdf.Fpdf, label, count string) {
	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(w-left-right-20, 5, label, "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 5, count, "B", 1, "R", false, 0, "")
}
