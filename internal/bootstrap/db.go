package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GoSim-25-26J-441/hr-copilot/config"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/history"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/storage/postgres"
)

// OpenHistory connects to PostgreSQL and makes sure the history table exists.
// The caller owns the returned *sql.DB.
func OpenHistory(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, *history.Repository, error) {
	db, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}

	repo := history.NewRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db schema: %w", err)
	}

	return db, repo, nil
}
