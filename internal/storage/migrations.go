// Package storage provides the request record store backed by sqlite, with a
// simple embedded-file schema migration system.
//
// Migration file naming and format
//   - Filenames must match the pattern: NNNN_name.up.sql or NNNN_name.down.sql
//     (regex: ^(?P<Version>\d{4})\_(?P<Name>[^.]+)\.(?P<Direction>(up|down))\.sql$).
//   - Version is a four-digit integer (e.g. 0001, 0002).
//   - Each file contains raw SQL applied to the database when that migration
//     is executed.
//
// Migrations are loaded from files embedded at build time, so adding or
// removing migration files requires rebuilding the binary.
package storage

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

//go:embed migrations/**/*.sql
var migrationsFS embed.FS

var reMigrationFilename = regexp.MustCompile(`^(?P<Version>\d{4})\_(?P<Name>[^.]+)\.(?P<Direction>(up|down))\.sql$`)

// SchemaMigration represents a single database migration
type SchemaMigration struct {
	Version int
	Name    string
	Up      bool
	SQL     string
}

func migrationsDir(driver string) (string, error) {
	switch driver {
	case "sqlite3":
		return "migrations/sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported driver: %s", driver)
	}
}

// loadMigrations returns the up migrations for driver with a version greater
// than prior, in ascending order.
func loadMigrations(driver string, prior int) ([]SchemaMigration, error) {
	dirPath, err := migrationsDir(driver)
	if err != nil {
		return nil, err
	}

	entries, err := migrationsFS.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var migrations []SchemaMigration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		migration, err := parseMigrationFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			slog.Warn("Skipping unrecognized migration file", "file", entry.Name(), "error", err)
			continue
		}

		if !migration.Up || migration.Version <= prior {
			continue
		}

		migrations = append(migrations, migration)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// parseMigrationFile parses a migration filename and reads its content.
// Expected format: NNNN_description.up.sql or NNNN_description.down.sql
func parseMigrationFile(path string) (SchemaMigration, error) {
	filename := filepath.Base(path)
	parts := reMigrationFilename.FindStringSubmatch(filename)
	if parts == nil {
		return SchemaMigration{}, fmt.Errorf("invalid migration filename: %s", filename)
	}

	sqlBytes, err := migrationsFS.ReadFile(path)
	if err != nil {
		return SchemaMigration{}, fmt.Errorf("failed to read migration file: %w", err)
	}

	version, _ := strconv.Atoi(parts[reMigrationFilename.SubexpIndex("Version")])
	return SchemaMigration{
		Version: version,
		Name:    parts[reMigrationFilename.SubexpIndex("Name")],
		Up:      parts[reMigrationFilename.SubexpIndex("Direction")] == "up",
		SQL:     string(sqlBytes),
	}, nil
}

// runMigrations brings the schema up to the latest embedded version. Each
// migration runs in its own transaction together with the version bump.
func (p *SQLProvider) runMigrations(driver string) error {
	if _, err := p.db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	if err := p.db.Get(&current,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	migrations, err := loadMigrations(driver, current)
	if err != nil {
		return err
	}

	logger := p.logger.With("driver", driver)
	for _, migration := range migrations {
		tx, err := p.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}
		if _, err := tx.Exec(migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %04d_%s failed: %w", migration.Version, migration.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %04d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %04d: %w", migration.Version, err)
		}
		logger.Info("Applied migration", "version", migration.Version, "name", migration.Name)
	}

	return nil
}

func (p *SQLProvider) GetSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := p.db.GetContext(ctx, &version,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
