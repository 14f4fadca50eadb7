package posts

import (
	"context"

	"github.com/dmitrijs2005/postpromo/internal/models"
)

// Repository persists posts. Visible means owned by userID or public.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetForUpdate(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	ListVisible(ctx context.Context, userID string, page models.Page) ([]*models.Post, error)
	CountVisible(ctx context.Context, userID string) (int64, error)
}
