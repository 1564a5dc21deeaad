// Package fetch implements the Fetcher and Downloader interfaces.
// It performs HTTP GET requests against the gazette site.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/rpipipe/core"
)

const (
	defaultTimeout   = 5 * time.Minute
	defaultUserAgent = "rpipipe/1.0 (https://github.com/gaurav-prasanna/rpipipe)"
)

// HTTPFetcher fetches pages and archives via HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// New creates an HTTPFetcher. A zero timeout selects the default, which
// is generous because issue archives run to tens of megabytes.
func New(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the body of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// Download streams the body of url into dest. A partially written file is
// removed on failure.
func (f *HTTPFetcher) Download(ctx context.Context, url, dest string) error {
	resp, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("closing %s: %w", dest, err)
	}
	return nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	return resp, nil
}
