// Package cmd implements the versiondb command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/modpublish/versiondb/config"
	"github.com/modpublish/versiondb/pipeline"
	"github.com/modpublish/versiondb/source"
	"github.com/modpublish/versiondb/util"
)

var (
	configFile string
	outputFile string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "versiondb",
	Short: "Build and serve the merged Minecraft version list",
	Long: `versiondb fetches the Minecraft version manifest and the CurseForge
game version catalog, joins them by version string and writes the result to
minecraft.version.json. Every manifest version appears exactly once; versions
without a catalog entry get the id -1.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = util.InitLogger(verbose)

		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		loaded.Output = util.GetStringOrDefault(outputFile, loaded.Output)
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", util.GetEnvDefault("VERSIONDB_CONFIG", ""), "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Version file to write (default minecraft.version.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newPipeline wires the sources configured in cfg
func newPipeline() *pipeline.Pipeline {
	client := source.NewClient(source.Options{
		UserAgent: cfg.UserAgent,
		Retries:   cfg.Retries,
	})
	manifest := source.NewManifestSource(client, cfg.ManifestURL, cfg.ManifestTimeout)
	catalog := source.NewCatalogSource(client, cfg.CatalogURL, cfg.CatalogTimeout, cfg.CatalogAPIKey)
	return pipeline.New(manifest, catalog, logger)
}
