package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"identity-svc/internal/db/migrations"
)

// gooseUpContext es un punto de inyección para tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// EnsureSchema aplica las migraciones embebidas. Es seguro ejecutarlo en cada arranque:
// goose registra las versiones aplicadas y el DDL usa IF NOT EXISTS para bases creadas
// antes de existir la tabla de versiones. No reintenta; el llamador debe haber pasado
// antes por Prober.WaitReady.
func EnsureSchema(ctx context.Context, logger *zap.Logger, db *sql.DB) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("schema dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		logger.Error("schema initialization failed", zap.Error(err))
		return fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("schema ready")
	return nil
}
