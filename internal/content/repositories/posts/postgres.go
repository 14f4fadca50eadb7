// Package posts stores posts in PostgreSQL.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/jackc/pgx/v5/pgtype"
)

const columns = `id, title, description, creator_id, is_private, tags, created_at, updated_at`

type PostgresRepository struct {
	db    dbx.DBTX
	types *pgtype.Map
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, types: pgtype.NewMap()}
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scan(row scanner) (*models.Post, error) {
	p := &models.Post{}
	var tags []string
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CreatorID, &p.IsPrivate,
		r.types.SQLScanner(&tags), &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	p.Tags = tags
	return p, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.InvalidText(err), dbx.ValueTooLong(err):
		return common.ErrorInvalidArgument
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.Tags == nil {
		post.Tags = []string{}
	}

	query :=
		`INSERT INTO posts (id, title, description, creator_id, is_private, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Description, post.CreatorID, post.IsPrivate, post.Tags, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + columns + ` FROM posts WHERE id = $1`

	p, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// GetForUpdate reads the row and locks it until the surrounding
// transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + columns + ` FROM posts WHERE id = $1 FOR UPDATE`

	p, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.Tags == nil {
		post.Tags = []string{}
	}

	query :=
		`UPDATE posts
		 SET title = $2, description = $3, is_private = $4, tags = $5, updated_at = $6
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Description, post.IsPrivate, post.Tags, post.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, mapError(err)
	} else if n == 0 {
		return nil, common.ErrorNotFound
	}

	return post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListVisible(ctx context.Context, userID string, page models.Page) ([]*models.Post, error) {
	query :=
		`SELECT ` + columns + ` FROM posts
		 WHERE creator_id = $1 OR NOT is_private
		 ORDER BY created_at, id
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, page.PerPage, page.Offset())
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0, page.PerPage)
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, mapError(err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return result, nil
}

func (r *PostgresRepository) CountVisible(ctx context.Context, userID string) (int64, error) {
	query := `SELECT count(*) FROM posts WHERE creator_id = $1 OR NOT is_private`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}
