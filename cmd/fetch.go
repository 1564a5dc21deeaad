package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/rpipipe/core"
	"github.com/gaurav-prasanna/rpipipe/core/extract"
	"github.com/gaurav-prasanna/rpipipe/core/fetch"
	"github.com/gaurav-prasanna/rpipipe/crawl"
	"github.com/gaurav-prasanna/rpipipe/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagIssue int
	flagTypes []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and unpack the archives of a gazette issue",
	Long: `Fetch discovers the latest issue on the registry index page (unless
--issue is given), downloads one archive per publication type into the work
directory and unpacks the XML documents next to them.

Examples:
  rpipipe fetch
  rpipipe fetch --issue 2790 --types RM,P`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addAcquireFlags(fetchCmd)
}

// addAcquireFlags registers the flags shared by fetch and run.
func addAcquireFlags(c *cobra.Command) {
	c.Flags().IntVar(&flagIssue, "issue", 0, "Issue number (default: latest on the index page)")
	c.Flags().StringSliceVar(&flagTypes, "types", nil, "Type codes to fetch (default: source.types)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	files, err := acquire(cmd.Context(), cfg, fetch.New(cfg.Source.Timeout), extract.New(), logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%d documents ready in %s\n", len(files), cfg.WorkDir)
	return nil
}

// acquire downloads and unpacks every planned archive and returns the
// extracted document paths. A failed archive is reported and skipped.
func acquire(
	ctx context.Context,
	cfg config.Config,
	fetcher *fetch.HTTPFetcher,
	extractor core.Extractor,
	logger *slog.Logger,
) ([]string, error) {
	issue := flagIssue
	if issue <= 0 {
		fmt.Fprintf(os.Stdout, "Discovering latest issue from %s...\n", cfg.Source.IndexURL)
		n, err := crawl.DiscoverIssue(ctx, cfg.Source.IndexURL, fetcher)
		if err != nil {
			return nil, fmt.Errorf("discovering issue: %w", err)
		}
		issue = n
	}

	types := cfg.Source.Types
	if len(flagTypes) > 0 {
		types = flagTypes
	}
	queue := crawl.Plan(issue, types)
	fmt.Fprintf(os.Stdout, "Issue %d: %d archives to fetch\n", issue, queue.Len())

	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}

	var (
		files    []string
		errCount int
		i        int
	)
	for queue.HasNext() {
		archive := queue.Next()
		i++
		fmt.Fprintf(os.Stdout, "[%d/%d] Fetching %s\n", i, queue.Len(), archive.Name())

		extracted, err := acquireArchive(ctx, cfg, archive, fetcher, extractor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", err)
			logger.Warn("archive skipped", "archive", archive.Name(), "err", err)
			errCount++
			continue
		}
		for _, f := range extracted {
			fmt.Fprintf(os.Stdout, "  ✓ Extracted: %s\n", f)
		}
		files = append(files, extracted...)
	}

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d archives failed\n", errCount, queue.Len())
	}
	return files, nil
}

func acquireArchive(
	ctx context.Context,
	cfg config.Config,
	archive crawl.Archive,
	downloader core.Downloader,
	extractor core.Extractor,
) ([]string, error) {
	url, err := crawl.ArchiveURL(cfg.Source.ArchiveURL, archive)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(cfg.WorkDir, archive.Name())
	if err := downloader.Download(ctx, url, dest); err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	files, err := extractor.Extract(dest, cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return files, nil
}
