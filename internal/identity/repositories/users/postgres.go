// Package users stores identity records in PostgreSQL. Username and email
// are unique; a collision surfaces as common.ErrorAlreadyExists wrapped with
// the violated constraint name.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/models"
)

// Storage constraint names.
const (
	UserNameConstraint = "users_username_key"
	EmailConstraint    = "users_email_key"
)

const columns = `id, username, email, password_hash, first_name, last_name, birth_date, phone, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*models.User, error) {
	u := &models.User{}
	var firstName, lastName, phone sql.NullString
	var birthDate sql.NullTime
	if err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.PasswordHash,
		&firstName, &lastName, &birthDate, &phone, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.FirstName = nullString(firstName)
	u.LastName = nullString(lastName)
	u.Phone = nullString(phone)
	if birthDate.Valid {
		d := time.Date(birthDate.Time.Year(), birthDate.Time.Month(), birthDate.Time.Day(), 0, 0, 0, 0, time.UTC)
		u.BirthDate = &d
	}
	return u, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if name, ok := dbx.UniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, name)
	}
	if dbx.InvalidText(err) || dbx.ValueTooLong(err) {
		return common.ErrorInvalidArgument
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, email, password_hash, first_name, last_name, birth_date, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.UserName, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.BirthDate, user.Phone, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	u, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM users WHERE username = $1`, userName))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	u, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	var found bool
	if err := r.db.QueryRowContext(ctx, query, userName, email).Scan(&found); err != nil {
		return false, mapError(err)
	}
	return found, nil
}

func (r *PostgresRepository) ExistsByEmailExcept(ctx context.Context, email, exceptID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	var found bool
	if err := r.db.QueryRowContext(ctx, query, email, exceptID).Scan(&found); err != nil {
		return false, mapError(err)
	}
	return found, nil
}

// Update rewrites the profile columns. Username and password are immutable
// here.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users
		 SET email = $2, first_name = $3, last_name = $4, birth_date = $5, phone = $6, updated_at = $7
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.BirthDate, user.Phone, user.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, mapError(err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	return user, nil
}
