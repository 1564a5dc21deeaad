// Package crawl: archive URL rules.
// Provides helpers to build and recognise per-type issue archive URLs.
package crawl

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Archive identifies one downloadable issue archive, e.g. RM2790.zip.
type Archive struct {
	Code  string
	Issue int
}

// Name is the archive file name.
func (a Archive) Name() string {
	return fmt.Sprintf("%s%d.zip", a.Code, a.Issue)
}

var archiveName = regexp.MustCompile(`^([A-Za-z]{1,3})(\d{3,5})\.zip$`)

// ParseArchive recognises an archive link or file name.
func ParseArchive(raw string) (Archive, bool) {
	p := raw
	if parsed, err := url.Parse(raw); err == nil {
		p = parsed.Path
	}
	m := archiveName.FindStringSubmatch(path.Base(p))
	if m == nil {
		return Archive{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Archive{}, false
	}
	return Archive{Code: strings.ToUpper(m[1]), Issue: n}, true
}

// ArchiveURL resolves an archive against the archive base URL.
func ArchiveURL(base string, a Archive) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing archive base URL: %w", err)
	}
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	return b.ResolveReference(&url.URL{Path: a.Name()}).String(), nil
}
