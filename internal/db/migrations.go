package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	sqlite_migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
)

const (
	// LatestMigrationVersion is the latest migration version of the
	// journal schema.
	//
	// NOTE: This MUST be updated when a new migration is added.
	LatestMigrationVersion uint = 1

	// migrationsTable records the applied schema version.
	migrationsTable = "schema_migrations"
)

// ErrMigrationDowngrade is returned when the journal was written by a newer
// binary than the one opening it.
var ErrMigrationDowngrade = errors.New("database downgrade detected")

// migrationLogger adapts the package logger to migrate.Logger.
type migrationLogger struct{}

// Printf implements the migrate.Logger interface.
func (migrationLogger) Printf(format string, v ...any) {
	format = strings.TrimRight(format, "\n")
	log.Debugf(format, v...)
}

// Verbose implements the migrate.Logger interface.
func (migrationLogger) Verbose() bool {
	return false
}

// migrateJournal brings the schema of db up to latestVersion.
func migrateJournal(ctx context.Context, db *sql.DB,
	latestVersion uint) error {

	driver, err := sqlite_migrate.WithInstance(db, &sqlite_migrate.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return fmt.Errorf("unable to create migration driver: %w", err)
	}

	return applyMigrations(
		ctx, sqlSchemas, driver, "migrations", "sqlite3",
		latestVersion,
	)
}

// applyMigrations executes the migration files found in fsys under path
// using the passed database driver.
func applyMigrations(ctx context.Context, fsys fs.FS, driver database.Driver,
	path, dbName string, latestVersion uint) error {

	migrateFileServer, err := httpfs.New(http.FS(fsys), path)
	if err != nil {
		return err
	}

	sqlMigrate, err := migrate.NewWithInstance(
		"migrations", migrateFileServer, dbName, driver,
	)
	if err != nil {
		return err
	}

	migrationVersion, dirty, err := sqlMigrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("unable to determine current migration "+
			"version: %w", err)
	}

	// A dirty version means an earlier run died mid-migration.
	if dirty {
		return fmt.Errorf("database is in a dirty state at version "+
			"%v, manual intervention required", migrationVersion)
	}

	if migrationVersion > latestVersion {
		return fmt.Errorf("%w: db_version=%v, "+
			"latest_migration_version=%v", ErrMigrationDowngrade,
			migrationVersion, latestVersion)
	}

	sqlMigrate.Log = migrationLogger{}

	err = sqlMigrate.Migrate(latestVersion)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	currentVersion, _, err := driver.Version()
	if err != nil {
		return fmt.Errorf("unable to get current db version: %w", err)
	}
	log.DebugS(ctx, "Journal schema ready",
		"previous_version", migrationVersion,
		"current_version", currentVersion)

	return nil
}
