package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/migrations"
)

// RunMigrations aplica as migrações goose embutidas que ainda não rodaram.
func RunMigrations(ctx context.Context, dbConn *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, dbConn, migrations.FS)
	if err != nil {
		return fmt.Errorf("falha ao criar provider de migrações: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("falha ao executar migrações: %w", err)
	}

	for _, r := range results {
		logging.Get().InfoContext(ctx, "migration applied",
			slog.String("source", r.Source.Path),
			slog.Duration("duration", r.Duration),
		)
	}
	return nil
}
