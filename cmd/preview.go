package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modpublish/versiondb/merge"
	"github.com/modpublish/versiondb/model"
	"github.com/modpublish/versiondb/store"
)

const defaultPreviewCount = 5

var previewCount int

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the first versions of the version file and match statistics",
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().IntVarP(&previewCount, "count", "n", defaultPreviewCount, "Number of versions to show")
}

func runPreview(cmd *cobra.Command, args []string) error {
	records, err := store.Load(cfg.Output)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	printPreview(cmd.OutOrStdout(), records, previewCount)
	return nil
}

func printPreview(out io.Writer, records []model.MergedRecord, count int) {
	if count < 0 {
		count = 0
	}
	shown := min(count, len(records))

	fmt.Fprintf(out, "\n%-24s %-10s %-8s %-22s %s\n", "VERSION", "TYPE", "ID", "RELEASED", "STATUS")
	fmt.Fprintln(out, "--------------------------------------------------------------------------------")
	for _, r := range records[:shown] {
		status := "✗ unmatched"
		if r.Matched() {
			status = "✓ matched"
		}
		fmt.Fprintf(out, "%-24s %-10s %-8d %-22s %s\n", r.ID, r.Kind, r.CatalogID, r.ReleasedAt, status)
	}
	if rest := len(records) - shown; rest > 0 {
		fmt.Fprintf(out, "... %d more versions\n", rest)
	}

	stats := merge.ComputeStats(records)
	fmt.Fprintf(out, "\nMatched %d of %d versions (%.1f%%), %d unmatched\n",
		stats.Matched, stats.Total, stats.MatchRate, stats.Unmatched)
}
