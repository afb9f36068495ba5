package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/archive"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/config"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/httpserver"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/labels"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/metrics"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/store"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if servePort != "" {
			cfg.Port = servePort
		}
		zerolog.SetGlobalLevel(cfg.LogLevel)

		if err := labels.Init(); err != nil {
			return fmt.Errorf("load labels: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		var arch *archive.Store
		if cfg.DBPath != "" {
			db, err := openArchive(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			arch = archive.NewStore(db)
		}

		srv := httpserver.New(cfg, httpserver.Deps{
			Store:   st,
			Archive: arch,
			Metrics: metrics.New(),
		})
		log.Info().
			Str("port", cfg.Port).
			Bool("redis", cfg.RedisAddr != "").
			Bool("archive", arch != nil).
			Int("maxRounds", cfg.MaxRounds).
			Msg("starting rps-supporter")
		return srv.Start(ctx, ":"+cfg.Port)
	},
}

// openStore picks Redis when REDIS_ADDR is set, else the in-memory store.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return store.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return store.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
}

func openArchive(path string) (*sql.DB, error) {
	db, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := archive.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return db, nil
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
