package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gaurav-prasanna/rpipipe/core/route"
	"github.com/gaurav-prasanna/rpipipe/core/transform"
	"github.com/spf13/cobra"
)

var lastIssueCmd = &cobra.Command{
	Use:   "last-issue <type>",
	Short: "Print the most recent issue stored for a publication type",
	Long: `Last-issue prints the greatest issue label stored in the collection of the
given type code (RM, P, PC, CT or DI). Nothing is printed for an empty
collection.

Examples:
  rpipipe last-issue RM
  rpipipe last-issue P --sink file --output_dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runLastIssue,
}

func init() {
	rootCmd.AddCommand(lastIssueCmd)
}

func runLastIssue(cmd *cobra.Command, args []string) error {
	t, ok := transform.ParseCode(strings.ToUpper(args[0]))
	if !ok {
		return fmt.Errorf("%w: %s", route.ErrUnknownType, args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sink, closeSink, err := openSink(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	collection := cfg.Collections[t.Code()]
	issue, err := sink.LastIssue(cmd.Context(), collection)
	if err != nil {
		return fmt.Errorf("querying %s: %w", collection, err)
	}
	if issue != "" {
		fmt.Fprintln(os.Stdout, issue)
	}
	return nil
}
