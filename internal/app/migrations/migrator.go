package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/db"
)

const createTrackingTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    VARCHAR(255) PRIMARY KEY,
	applied_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`

// Migrator applies numbered SQL files once each
type Migrator struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(pool *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{pool: pool, logger: logger}
}

// Version extracts the version prefix of a migration file name,
// "001_init.sql" yields "001".
func Version(fileName string) string {
	return strings.SplitN(filepath.Base(fileName), "_", 2)[0]
}

// PendingFiles returns the .sql files of dir in apply order
func PendingFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// MigrateFromDirectory applies every SQL file of dir not yet recorded
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dir string) error {
	if _, err := m.pool.Exec(ctx, createTrackingTable); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	files, err := PendingFiles(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := m.migrateFile(ctx, filepath.Join(dir, file)); err != nil {
			return err
		}
	}
	return nil
}

// migrateFile runs one file and records its version in the same transaction
func (m *Migrator) migrateFile(ctx context.Context, path string) error {
	version := Version(path)

	var applied bool
	err := m.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&applied)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}
	if applied {
		m.logger.Debug().Str("file", filepath.Base(path)).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = db.WithTransaction(ctx, m.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", filepath.Base(path), err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("file", filepath.Base(path)).Msg("Migration applied")
	return nil
}
