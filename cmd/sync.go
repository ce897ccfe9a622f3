package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modpublish/versiondb/model"
	"github.com/modpublish/versiondb/pipeline"
	"github.com/modpublish/versiondb/util"
)

var (
	manifestURL string
	catalogURL  string
	retries     uint64
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch both sources, merge them and write the version file",
	Long: `Fetches the version manifest and the catalog, merges them and replaces
the version file atomically.

The manifest is required: if it cannot be fetched or parsed the command fails
and the existing file is left as it was. The catalog is optional: if it is
unavailable every version is written with id -1.`,
	RunE: runSync,
}

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Write the version manifest alone, without catalog ids",
	RunE:  runFetch,
}

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Re-resolve catalog ids for an existing version file",
	Long: `Reads the existing version file as the merge base, fetches the catalog
and rewrites the file in place. Both a missing file and an unavailable catalog
are errors; the file is only replaced when every step succeeds.`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(syncCmd, fetchCmd, enrichCmd)

	for _, c := range []*cobra.Command{syncCmd, fetchCmd, enrichCmd} {
		c.Flags().Uint64Var(&retries, "retries", 0, "Extra attempts per request after a transient failure")
	}
	syncCmd.Flags().StringVar(&manifestURL, "manifest-url", "", "Override the version manifest URL")
	syncCmd.Flags().StringVar(&catalogURL, "catalog-url", "", "Override the catalog URL")
	fetchCmd.Flags().StringVar(&manifestURL, "manifest-url", "", "Override the version manifest URL")
	enrichCmd.Flags().StringVar(&catalogURL, "catalog-url", "", "Override the catalog URL")
}

func applySourceFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("manifest-url") {
		cfg.ManifestURL = manifestURL
	}
	if cmd.Flags().Changed("catalog-url") {
		cfg.CatalogURL = catalogURL
	}
	if cmd.Flags().Changed("retries") {
		cfg.Retries = retries
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSync(cmd *cobra.Command, args []string) error {
	applySourceFlags(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	report, err := newPipeline().Sync(ctx, cfg.Output)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	applySourceFlags(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	report, err := newPipeline().Fetch(ctx, cfg.Output)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func runEnrich(cmd *cobra.Command, args []string) error {
	applySourceFlags(cmd)
	if !util.FileExists(cfg.Output) {
		return fmt.Errorf("enrich failed: no version file at %s, run fetch or sync first: %w", cfg.Output, model.ErrIO)
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := newPipeline().Enrich(ctx, cfg.Output)
	if err != nil {
		return fmt.Errorf("enrich failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report *pipeline.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Saved %d versions to %s\n", len(report.Records), report.Output)
	if report.Latest.Release != "" || report.Latest.Snapshot != "" {
		fmt.Fprintf(out, "Latest release:  %s\n", report.Latest.Release)
		fmt.Fprintf(out, "Latest snapshot: %s\n", report.Latest.Snapshot)
	}
	if verbose {
		printPreview(out, report.Records, defaultPreviewCount)
	}
}
