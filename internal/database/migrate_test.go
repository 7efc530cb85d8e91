package database

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	rootdb "quiz-seeder/database"
)

func TestNewSource(t *testing.T) {
	src, err := newSource(rootdb.Migrations, rootdb.MigrationsDir)
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	_, err = newSource(rootdb.Migrations, "does-not-exist")
	assert.Error(t, err)
}

func TestZapMigrateLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &zapMigrateLogger{l: zap.New(core)}

	l.Printf("1/u create_quiz_tables (%s)\n", "12ms")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "1/u create_quiz_tables (12ms)", logs.All()[0].Message)
	assert.False(t, l.Verbose())

	debugCore, _ := observer.New(zapcore.DebugLevel)
	assert.True(t, (&zapMigrateLogger{l: zap.New(debugCore)}).Verbose())
}

type closeCountingSource struct {
	source.Driver
	closed int
}

func (s *closeCountingSource) Close() error {
	s.closed++
	return s.Driver.Close()
}

type closeCountingDriver struct {
	migratedb.Driver
	closed int
}

func (d *closeCountingDriver) Close() error {
	d.closed++
	return nil
}

func TestNewMigrator_ClosesDriversOnFailure(t *testing.T) {
	boom := errors.New("unknown source")
	orig := newMigrateInstance
	newMigrateInstance = func(string, source.Driver, string, migratedb.Driver) (*migrate.Migrate, error) {
		return nil, boom
	}
	t.Cleanup(func() { newMigrateInstance = orig })

	inner, err := newSource(rootdb.Migrations, rootdb.MigrationsDir)
	require.NoError(t, err)
	src := &closeCountingSource{Driver: inner}
	drv := &closeCountingDriver{}

	m, err := newMigrator(src, drv, zap.NewNop())
	assert.Nil(t, m)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, src.closed)
	assert.Equal(t, 1, drv.closed)
}
