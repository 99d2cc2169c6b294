package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

//go:embed migrations/seed.sql
var seedSQL string

// Bootstrap creates the schema and seeds the default categories.
//
// Each migration runs as a single transaction: SQLite migrations are wrapped
// by the driver, and the PostgreSQL file is sent as one simple-protocol
// batch, which the server executes atomically. A run that fails leaves the
// version dirty with no partial effects, so the dirty version is forced back
// and the migration retried once on the next start.
//
// The seed insert also runs on every start, in its own transaction, so a
// default category that was deleted comes back. Existing names are skipped.
func Bootstrap(cfg Config) error {
	if cfg.Dialect == "" {
		cfg.Dialect = SQLite
	}

	// Create a separate connection for migrations; closing the migrate
	// instance closes the database it was given.
	migrateDB, err := sql.Open(cfg.Dialect.driverName(), cfg.DSN())
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	var (
		driver database.Driver
		name   string
	)
	switch cfg.Dialect {
	case Postgres:
		driver, err = pgx.WithInstance(migrateDB, &pgx.Config{})
		name = "pgx5"
	default:
		driver, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
		name = "sqlite"
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", cfg.Dialect, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(cfg.Dialect))
	if err != nil {
		return fmt.Errorf("locate %s migrations: %w", cfg.Dialect, err)
	}
	d, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, name, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		target := dirty.Version - 1
		if target < 1 {
			target = database.NilVersion
		}
		slog.Warn("Schema version is dirty, retrying migration",
			"component", "storage",
			"version", dirty.Version,
			"forced_to", target)
		if ferr := m.Force(target); ferr != nil {
			return fmt.Errorf("force migration version %d: %w", target, ferr)
		}
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return seedCategories(migrateDB)
}

func seedCategories(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, seedSQL); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}
