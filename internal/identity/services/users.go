// Package services holds the identity store rules: registration, login,
// token verification and profile maintenance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/postpromo/internal/auth"
	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/identity/repositories/repomanager"
	"github.com/dmitrijs2005/postpromo/internal/identity/repositories/users"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/google/uuid"
)

// TokenType is the only token type issued.
const TokenType = "bearer"

// TokenPair is the login result.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authority   *auth.Authority
	now         func() time.Time
	newID       func() string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, a *auth.Authority) *UserService {
	return &UserService{db: db, repomanager: m, authority: a, now: time.Now, newID: uuid.NewString}
}

func (s *UserService) inTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return dbx.InTx(ctx, s.db, nil, s.repomanager.Users, fn)
}

// Widths of the users table columns.
const (
	maxUserNameLength = 150
	maxEmailLength    = 255
	maxNameLength     = 100
	maxPhoneLength    = 32
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func checkLength(v *common.ValidationError, field, s string, max int) bool {
	if utf8.RuneCountInString(s) > max {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
		return false
	}
	return true
}

func checkEmail(v *common.ValidationError, email string) {
	switch {
	case blank(email):
		v.Add("email", "must not be empty")
	case !checkLength(v, "email", email, maxEmailLength):
	case !common.EmailPattern.MatchString(email):
		v.Add("email", "must be a valid email address")
	}
}

// Register creates an account. The pre-check gives the usual duplicate a
// fast answer; the unique constraints decide concurrent races.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	v := &common.ValidationError{}
	if blank(username) {
		v.Add("username", "must not be empty")
	} else {
		checkLength(v, "username", username, maxUserNameLength)
	}
	checkEmail(v, email)
	if password == "" {
		v.Add("password", "must not be empty")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	user := &models.User{
		ID:           s.newID(),
		UserName:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.inTx(ctx, func(ctx context.Context, repo users.Repository) error {
		taken, err := repo.ExistsByUserNameOrEmail(ctx, username, email)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorAlreadyExists
		}
		_, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// Login checks credentials and issues an access token. An unknown user and a
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if blank(username) || password == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.authority.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &TokenPair{AccessToken: token, TokenType: TokenType}, nil
}

func (s *UserService) VerifyToken(_ context.Context, token string) (*models.Identity, error) {
	return s.authority.Verify(token)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrorNotFound
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies patch to the caller's own record under a row lock.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.User, error) {
	v := &common.ValidationError{}
	if patch.Email != nil {
		checkEmail(v, *patch.Email)
	}
	if patch.FirstName != nil {
		checkLength(v, "first_name", *patch.FirstName, maxNameLength)
	}
	if patch.LastName != nil {
		checkLength(v, "last_name", *patch.LastName, maxNameLength)
	}
	if patch.Phone != nil {
		checkLength(v, "phone", *patch.Phone, maxPhoneLength)
	}
	var birthDate *time.Time
	if patch.BirthDate != nil && *patch.BirthDate != "" {
		d, err := time.Parse(models.BirthDateLayout, *patch.BirthDate)
		if err != nil {
			v.Add("birth_date", "must be a date in YYYY-MM-DD format")
		}
		birthDate = &d
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrorNotFound
	}

	var updated *models.User
	err := s.inTx(ctx, func(ctx context.Context, repo users.Repository) error {
		user, err := repo.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if patch.Email != nil && *patch.Email != user.Email {
			taken, err := repo.ExistsByEmailExcept(ctx, *patch.Email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, users.EmailConstraint)
			}
			user.Email = *patch.Email
		}
		if patch.FirstName != nil {
			user.FirstName = optional(*patch.FirstName)
		}
		if patch.LastName != nil {
			user.LastName = optional(*patch.LastName)
		}
		if patch.Phone != nil {
			user.Phone = optional(*patch.Phone)
		}
		if patch.BirthDate != nil {
			user.BirthDate = birthDate
		}
		user.UpdatedAt = nextUpdate(s.now(), user.UpdatedAt)

		updated, err = repo.Update(ctx, user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// optional maps an empty value to a cleared column.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nextUpdate(now time.Time, prev time.Time) time.Time {
	next := now.UTC().Truncate(time.Microsecond)
	if !next.After(prev) {
		next = prev.Add(time.Microsecond)
	}
	return next
}
