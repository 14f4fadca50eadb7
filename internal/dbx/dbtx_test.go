package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO t`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.NoError(t, mock.ExpectationsWereMet())
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	called := false
	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called, "fn must not run when begin fails")
}

func TestWithTx_CommitErrorIsReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error { return nil })
	require.EqualError(t, err, "commit tx: commit failed")
}

func TestWithTx_RollbackErrorJoined(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("conn lost"))

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error { return boom })
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "rollback tx: conn lost")
	require.NoError(t, mock.ExpectationsWereMet())
}

type countRepo struct{ tx DBTX }

func TestInTx_BindsRepositoryToTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM t`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	bind := func(tx DBTX) *countRepo { return &countRepo{tx: tx} }
	err = InTx(context.Background(), db, nil, bind, func(ctx context.Context, repo *countRepo) error {
		if _, ok := repo.tx.(*sql.Tx); !ok {
			t.Fatalf("repository bound to %T, want *sql.Tx", repo.tx)
		}
		_, err := repo.tx.ExecContext(ctx, `DELETE FROM t`)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "promocodes_code_key"}

	name, ok := UniqueViolation(fmt.Errorf("db error: %w", pgErr))
	require.True(t, ok)
	require.Equal(t, "promocodes_code_key", name)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	require.False(t, ok)

	_, ok = UniqueViolation(errors.New("plain"))
	require.False(t, ok)
}

func TestInvalidText(t *testing.T) {
	require.True(t, InvalidText(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "22P02"})))
	require.False(t, InvalidText(errors.New("plain")))
}

func TestValueTooLong(t *testing.T) {
	require.True(t, ValueTooLong(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "22001"})))
	require.False(t, ValueTooLong(&pgconn.PgError{Code: "22P02"}))
	require.False(t, ValueTooLong(errors.New("plain")))
}
