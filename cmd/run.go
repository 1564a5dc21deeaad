package cmd

import (
	"fmt"
	"os"

	"github.com/gaurav-prasanna/rpipipe/core/extract"
	"github.com/gaurav-prasanna/rpipipe/core/fetch"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the latest issue and ingest it",
	Long: `Run chains fetch and ingest: it downloads the issue archives into the work
directory, ingests every extracted document and removes the work directory
afterwards unless keep_work_dir is set.

Examples:
  rpipipe run
  rpipipe run --issue 2790 --digest digest.md`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addAcquireFlags(runCmd)
	addDigestFlag(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if !cfg.KeepWorkDir {
		defer func() {
			if err := os.RemoveAll(cfg.WorkDir); err != nil {
				logger.Warn("work directory not removed", "dir", cfg.WorkDir, "err", err)
			}
		}()
	}

	files, err := acquire(cmd.Context(), cfg, fetch.New(cfg.Source.Timeout), extract.New(), logger)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no documents fetched")
	}
	return ingest(cmd.Context(), cfg, files)
}
