package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"quiz-seeder/internal/domain"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// persistenceError wraps a database failure, keeping the Postgres SQLSTATE when there is one.
func persistenceError(op string, err error) *domain.DomainError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return domain.NewPersistenceError(fmt.Sprintf("%s (SQLSTATE %s)", op, pgErr.Code), err)
	}
	return domain.NewPersistenceError(op, err)
}
