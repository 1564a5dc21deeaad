// Package crawl discovers the current gazette issue and the archives to
// download for it, keeping discovery separate from the ingest pipeline.
package crawl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/rpipipe/core"
)

// ErrIssueNotFound is returned when the index page shows no issue number.
var ErrIssueNotFound = errors.New("crawl: issue number not found")

// issueCellSelector addresses the first cell of the second row of the
// first table inside the fourth top-level div of the index page, where the
// latest issue number is published.
const issueCellSelector = "body > div:nth-of-type(4) > div > table:nth-of-type(1) tr:nth-of-type(2) > td:nth-of-type(1)"

var issueNumber = regexp.MustCompile(`^\d{3,5}$`)

// DiscoverIssue fetches the index page and returns the latest issue number.
// When the page layout has moved, the highest archive number linked from
// the page is used instead.
func DiscoverIssue(ctx context.Context, indexURL string, fetcher core.Fetcher) (int, error) {
	result, err := fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return 0, fmt.Errorf("fetching index: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		return 0, fmt.Errorf("parsing index: %w", err)
	}

	cell := strings.TrimSpace(doc.Find(issueCellSelector).First().Text())
	if issueNumber.MatchString(cell) {
		return strconv.Atoi(cell)
	}

	best := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if a, ok := ParseArchive(href); ok && a.Issue > best {
			best = a.Issue
		}
	})
	if best == 0 {
		return 0, ErrIssueNotFound
	}
	return best, nil
}
