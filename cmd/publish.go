package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modpublish/versiondb/database"
	"github.com/modpublish/versiondb/store"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Mirror the version file into ArangoDB",
	Long: `Loads the version file and upserts every record into the mcversion
collection, keyed by version id. Connection settings come from ARANGO_URL,
ARANGO_USER, ARANGO_PASS and ARANGO_DB or the arango section of the config file.`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	records, err := store.Load(cfg.Output)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	db, err := database.Connect(ctx, cfg.Arango, logger)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	written, err := db.SaveVersions(ctx, records)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Published %d versions to %s/%s\n", written, cfg.Arango.Database, database.CollectionName)
	return nil
}
