package users

import (
	"context"

	"github.com/dmitrijs2005/postpromo/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.User, error)
	ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error)
	// ExistsByEmailExcept reports whether a user other than exceptID owns email.
	ExistsByEmailExcept(ctx context.Context, email, exceptID string) (bool, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}
