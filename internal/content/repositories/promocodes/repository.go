package promocodes

import (
	"context"

	"github.com/dmitrijs2005/postpromo/internal/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Promocode) (*models.Promocode, error)
	GetByID(ctx context.Context, id string) (*models.Promocode, error)
	GetForUpdate(ctx context.Context, id string) (*models.Promocode, error)
	Update(ctx context.Context, p *models.Promocode) (*models.Promocode, error)
	Delete(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, userID string, page models.Page) ([]*models.Promocode, error)
	CountByCreator(ctx context.Context, userID string) (int64, error)
	// CodeTaken reports whether another record (not exceptID) holds code.
	CodeTaken(ctx context.Context, code, exceptID string) (bool, error)
}
