package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/rpipipe/core"
)

// ForPath selects the renderer matching the extension of path.
func ForPath(path string) (core.Renderer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdownRenderer(), nil
	case ".json":
		return NewJSONRenderer(), nil
	case ".pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("no digest renderer for %q (want .md, .json or .pdf)", path)
	}
}
