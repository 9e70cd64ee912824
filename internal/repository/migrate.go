package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationLockID serialises concurrent Migrate calls across processes.
const migrationLockID = 7415_2201

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, in file name order, in a single transaction.
func (s *Store) Migrate(ctx context.Context, log *logrus.Logger) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	return s.RunAtomic(ctx, func(ctx context.Context) error {
		db := s.getExecutor(ctx)

		if _, err := db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
			return fmt.Errorf("failed to take migration lock: %w", err)
		}
		if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
			return fmt.Errorf("failed to create schema_migrations table: %w", err)
		}

		for _, name := range names {
			version := strings.TrimPrefix(name, "migrations/")

			var applied bool
			if err := db.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&applied); err != nil {
				return fmt.Errorf("failed to check migration %s: %w", version, err)
			}
			if applied {
				log.WithField("file", version).Debug("skipping applied migration")
				continue
			}

			content, err := migrationFiles.ReadFile(name)
			if err != nil {
				return fmt.Errorf("failed to read migration %s: %w", version, err)
			}

			log.WithField("file", version).Info("applying migration")
			if _, err := db.Exec(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", version, err)
			}
			if _, err := db.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", version, err)
			}
		}
		return nil
	})
}
