package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/modpublish/versiondb/server"
	"github.com/modpublish/versiondb/store"
)

var (
	listenAddr string
	accessLog  bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the version file over REST and GraphQL",
	Long: `Starts an HTTP server exposing the version file. The file is re-read on
every request, so a concurrent sync is picked up without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default :3000)")
	serveCmd.Flags().BoolVar(&accessLog, "access-log", false, "Log every request")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("listen") {
		cfg.ListenAddr = listenAddr
	}

	app, err := server.New(store.NewFileRepository(cfg.Output), logger, server.Config{AccessLog: accessLog})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		_ = app.Shutdown()
	}()

	logger.Info("Starting server",
		zap.String("addr", cfg.ListenAddr),
		zap.String("file", cfg.Output))

	if err := app.Listen(cfg.ListenAddr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
