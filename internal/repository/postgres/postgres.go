package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgPool is the executor surface repositories need from a pool: plain
// statements plus the ability to open transactions. Both *pgxpool.Pool and
// pgxmock satisfy it.
type pgPool interface {
	pgExecutor
	Begin(ctx context.Context) (pgx.Tx, error)
}

// uniqueConstraint maps a violated unique constraint name onto a sentinel
// error, so callers never see raw pg errors for expected conflicts.
func uniqueConstraint(err error, constraints map[string]error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	if pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	for name, sentinel := range constraints {
		if strings.Contains(pgErr.ConstraintName, name) {
			return sentinel
		}
	}
	return nil
}

// inTx runs fn inside a transaction, rolling back on error or panic.
func inTx(ctx context.Context, pool pgPool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
