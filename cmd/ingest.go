package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gaurav-prasanna/rpipipe/core"
	"github.com/gaurav-prasanna/rpipipe/core/convert"
	"github.com/gaurav-prasanna/rpipipe/core/normalize"
	"github.com/gaurav-prasanna/rpipipe/core/render"
	"github.com/gaurav-prasanna/rpipipe/core/route"
	"github.com/gaurav-prasanna/rpipipe/internal/config"
	"github.com/spf13/cobra"
)

var flagDigest string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file|dir>...",
	Short: "Normalize gazette documents and insert them into the sink",
	Long: `Ingest converts each gazette document (XML, or a pre-converted JSON tree),
normalizes it into canonical records and bulk-inserts one batch per file into
the collection of the file's publication type. Directories are scanned for
.xml and .json files. A failing file is reported and the rest continue.

Examples:
  rpipipe ingest data/RM2790.xml
  rpipipe ingest data --sink file --output_dir ./out
  rpipipe ingest data --digest digest.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	addDigestFlag(ingestCmd)
}

func addDigestFlag(c *cobra.Command) {
	c.Flags().StringVar(&flagDigest, "digest", "", "Write a run digest (.md, .json or .pdf)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := collectInputs(args)
	if err != nil {
		return err
	}
	return ingest(cmd.Context(), cfg, files)
}

// ingest routes files through a router bound to the configured sink and
// writes the digest when requested.
func ingest(ctx context.Context, cfg config.Config, files []string) error {
	var renderer core.Renderer
	if flagDigest != "" {
		r, err := render.ForPath(flagDigest)
		if err != nil {
			return err
		}
		renderer = r
	}

	sink, closeSink, err := openSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	router := route.New(normalize.New(), sink,
		route.WithConverter(".xml", convert.NewXML()),
		route.WithConverter(".json", convert.NewJSON()),
		route.WithCollections(cfg.Collections),
		route.WithLogger(newLogger(cfg)),
	)

	digest := routeAll(ctx, router, files)

	if renderer != nil {
		data, err := renderer.Render(digest)
		if err != nil {
			return fmt.Errorf("render digest: %w", err)
		}
		if err := os.WriteFile(flagDigest, data, 0644); err != nil {
			return fmt.Errorf("writing digest: %w", err)
		}
		fmt.Fprintf(os.Stdout, "✓ Digest: %s\n", flagDigest)
	}

	if n := len(digest.Failures); n > 0 {
		return fmt.Errorf("%d/%d files failed", n, len(files))
	}
	return nil
}

// routeAll processes every file in order. Failures are collected in the
// digest; they never stop the remaining files.
func routeAll(ctx context.Context, router *route.Router, files []string) core.Digest {
	digest := core.Digest{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}

	for i, path := range files {
		fmt.Fprintf(os.Stdout, "[%d/%d] Ingesting %s\n", i+1, len(files), path)

		summary, err := router.RouteFile(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", err)
			digest.Failures = append(digest.Failures, core.FileFailure{File: path, Error: err.Error()})
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ %d records → %s\n", summary.Records, summary.Collection)
		digest.Files = append(digest.Files, summary)
	}
	return digest
}

// collectInputs expands directories into their .xml and .json files,
// sorted by name. Explicit file arguments are kept as given.
func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".xml", ".json":
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .xml or .json documents in %s", strings.Join(args, ", "))
	}
	return files, nil
}
