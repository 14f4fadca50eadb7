// Package promocodes stores promocodes in PostgreSQL. The code column is
// unique; a collision surfaces as common.ErrorAlreadyExists.
package promocodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/models"
)

const columns = `id, name, description, creator_id, discount, code, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*models.Promocode, error) {
	p := &models.Promocode{}
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &description, &p.CreatorID, &p.Discount, &p.Code, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = description.String
	return p, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if _, ok := dbx.UniqueViolation(err); ok {
		return common.ErrorAlreadyExists
	}
	if dbx.InvalidText(err) || dbx.ValueTooLong(err) {
		return common.ErrorInvalidArgument
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Promocode) (*models.Promocode, error) {
	query :=
		`INSERT INTO promocodes (id, name, description, creator_id, discount, code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.CreatorID, p.Discount, p.Code, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Promocode, error) {
	p, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM promocodes WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Promocode, error) {
	p, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM promocodes WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Promocode) (*models.Promocode, error) {
	query :=
		`UPDATE promocodes
		 SET name = $2, description = $3, discount = $4, code = $5, updated_at = $6
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Discount, p.Code, p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, mapError(err)
	} else if n == 0 {
		return nil, common.ErrorNotFound
	}

	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promocodes WHERE id = $1`, id)
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

func (r *PostgresRepository) ListByCreator(ctx context.Context, userID string, page models.Page) ([]*models.Promocode, error) {
	query :=
		`SELECT ` + columns + ` FROM promocodes
		 WHERE creator_id = $1
		 ORDER BY created_at, id
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, page.PerPage, page.Offset())
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := make([]*models.Promocode, 0, page.PerPage)
	for rows.Next() {
		p, err := scan(rows)
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

func (r *PostgresRepository) CountByCreator(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM promocodes WHERE creator_id = $1`, userID).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *PostgresRepository) CodeTaken(ctx context.Context, code, exceptID string) (bool, error) {
	var (
		query = `SELECT EXISTS (SELECT 1 FROM promocodes WHERE code = $1)`
		args  = []any{code}
	)
	if exceptID != "" {
		query = `SELECT EXISTS (SELECT 1 FROM promocodes WHERE code = $1 AND id <> $2)`
		args = append(args, exceptID)
	}

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&taken); err != nil {
		return false, mapError(err)
	}
	return taken, nil
}
