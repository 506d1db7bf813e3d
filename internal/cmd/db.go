package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/preiskampf/preiskampf/internal/config"
	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
)

// openDB carrega a config, inicia o log e aplica as migrações.
func openDB(ctx context.Context) (*db.DualPool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.LogLevel)

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(ctx, pool.Write); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return pool, nil
}

func RunSeed() {
	ctx := context.Background()
	pool, err := openDB(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer pool.Close()

	logger := logging.Get()
	if err := db.Seed(ctx, pool.Write); err != nil {
		logger.Error("failed to seed database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("database seeded successfully")
}

func RunMigrate() {
	pool, err := openDB(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer pool.Close()

	logging.Get().Info("migrations executed successfully")
}
