package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// NewMigrator prepares golang-migrate over an open Postgres handle.
// The migrator owns db afterwards; Close releases both.
func NewMigrator(db *sql.DB, migrations fs.FS, dir string, logger *zap.Logger) (*Migrator, error) {
	src, err := newSource(migrations, dir)
	if err != nil {
		return nil, err
	}

	drv, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	return newMigrator(src, drv, logger)
}

// newMigrateInstance is swapped in tests.
var newMigrateInstance = migrate.NewWithInstance

// newMigrator takes ownership of src and drv; both are closed if it fails.
func newMigrator(src source.Driver, drv migratedb.Driver, logger *zap.Logger) (*Migrator, error) {
	m, err := newMigrateInstance("iofs", src, "pgx5", drv)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("could not create migrator: %w", err), src.Close(), drv.Close())
	}
	m.Log = &zapMigrateLogger{l: logger}

	return &Migrator{m: m, logger: logger}, nil
}

func newSource(migrations fs.FS, dir string) (source.Driver, error) {
	src, err := iofs.New(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory %s: %w", dir, err)
	}
	return src, nil
}

// Up applies every pending migration. Nothing to apply is not an error.
func (g *Migrator) Up() error {
	if err := g.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}
	return nil
}

// Down rolls back steps migrations, or all of them when steps <= 0.
func (g *Migrator) Down(steps int) error {
	var err error
	if steps <= 0 {
		err = g.m.Down()
	} else {
		err = g.m.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not roll back migrations: %w", err)
	}
	return nil
}

// Version reports the applied version. ok is false when no migration has run.
func (g *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("could not read migration version: %w", err)
	}
	return version, dirty, true, nil
}

// Close releases the source and the database handle.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}

// zapMigrateLogger adapts zap to migrate.Logger.
type zapMigrateLogger struct {
	l *zap.Logger
}

func (z *zapMigrateLogger) Printf(format string, v ...any) {
	z.l.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (z *zapMigrateLogger) Verbose() bool {
	return z.l.Core().Enabled(zap.DebugLevel)
}
