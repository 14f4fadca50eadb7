package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/postpromo/internal/content/repositories/posts"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/promocodes"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Posts(db dbx.DBTX) posts.Repository
	Promocodes(db dbx.DBTX) promocodes.Repository
}
