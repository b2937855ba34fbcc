package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aqualytics/aqualytics/internal/config"
	"github.com/aqualytics/aqualytics/internal/database"
	"github.com/aqualytics/aqualytics/internal/logging"
	"github.com/aqualytics/aqualytics/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	port      int
	logFile   string
	verbosity int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aqualytics",
		Short: "AquaLytics - swimming performance measurement store",
		Long:  `AquaLytics persists and serves structured performance measurements for swimmers across competitions, backed by PostgreSQL.`,
		RunE:  run,
	}

	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (overrides PORT env var)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (console only when empty)")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aqualytics %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE:  migrate,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logging.Setup(verbosity, logFile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}

	log.Info().
		Str("version", version).
		Int("port", cfg.Port).
		Int("pool_size", cfg.PoolSize).
		Int("max_overflow", cfg.MaxOverflow).
		Msg("Starting AquaLytics")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Startup hard-fails when the database is unreachable.
	db := database.New(cfg)
	if err := db.Startup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Shutdown()

	maintenance := database.NewMaintenance(db)
	if err := maintenance.Start(""); err != nil {
		log.Fatal().Err(err).Msg("Failed to start database maintenance")
	}
	defer maintenance.Stop()

	server := web.NewServer(db, cfg.Port, cfg.CORSOrigins, version)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}

	log.Info().Msg("AquaLytics stopped")
	return nil
}

func migrate(cmd *cobra.Command, args []string) error {
	logging.Setup(verbosity, logFile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db := database.New(cfg)
	if _, err := db.Open(ctx); err != nil {
		return err
	}
	defer db.Close()

	return db.Migrate(ctx)
}
