// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/postpromo/internal/content/migrations"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/posts"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/promocodes"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

// Posts returns a posts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Posts(db dbx.DBTX) posts.Repository {
	return posts.NewPostgresRepository(db)
}

// Promocodes returns a promocodes.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Promocodes(db dbx.DBTX) promocodes.Repository {
	return promocodes.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
