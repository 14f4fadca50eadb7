// Package dbx holds the database plumbing shared by the identity and
// content stores: the DBTX handle both *sql.DB and *sql.Tx satisfy, the
// transaction helpers every mutation runs through, and PostgreSQL error
// classification.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is the subset of database/sql used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit when fn succeeds, rollback
// when it fails or panics. Panics are rethrown after the rollback. A failed
// rollback is joined to fn's error so the cause is never lost.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit tx: %w", cErr)
		}
	}()

	return fn(ctx, tx)
}

// InTx is WithTx with the repository already bound to the transaction:
//
//	err := dbx.InTx(ctx, db, nil, manager.Posts, func(ctx context.Context, repo posts.Repository) error {
//		return repo.Delete(ctx, id)
//	})
func InTx[R any](ctx context.Context, db *sql.DB, opts *sql.TxOptions, bind func(DBTX) R, fn func(ctx context.Context, repo R) error) error {
	return WithTx(ctx, db, opts, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, bind(tx))
	})
}
