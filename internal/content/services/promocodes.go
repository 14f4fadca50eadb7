package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/promocodes"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/repomanager"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/google/uuid"
)

// PromocodeService manages promocodes. Every operation is restricted to
// the owner; codes are unique across all owners.
type PromocodeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewPromocodeService(db *sql.DB, m repomanager.RepositoryManager) *PromocodeService {
	return &PromocodeService{db: db, repomanager: m, now: time.Now, newID: uuid.NewString}
}

func (s *PromocodeService) inTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, repo promocodes.Repository) error) error {
	return dbx.InTx(ctx, s.db, opts, s.repomanager.Promocodes, fn)
}

func checkDiscount(v *common.ValidationError, d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		v.Add("discount", "must be a non-negative number")
	}
}

func checkCode(v *common.ValidationError, code string) {
	checkText(v, "code", code, maxCodeLength)
}

// CreatePromocode stores a new promocode. A taken code fails with
// common.ErrorAlreadyExists and nothing is written.
func (s *PromocodeService) CreatePromocode(ctx context.Context, ownerID, name, description string, discount float64, code string) (*models.Promocode, error) {
	v := &common.ValidationError{}
	validID(v, "creator_id", ownerID)
	checkText(v, "name", name, maxNameLength)
	checkDiscount(v, discount)
	checkCode(v, code)
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	p := &models.Promocode{
		ID:          s.newID(),
		Name:        name,
		Description: description,
		CreatorID:   ownerID,
		Discount:    discount,
		Code:        code,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created *models.Promocode
	err := s.inTx(ctx, nil, func(ctx context.Context, repo promocodes.Repository) error {
		taken, err := repo.CodeTaken(ctx, code, "")
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorAlreadyExists
		}
		created, err = repo.Create(ctx, p)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create promocode: %w", err)
	}
	return created, nil
}

func (s *PromocodeService) GetPromocode(ctx context.Context, id, callerID string) (*models.Promocode, error) {
	v := &common.ValidationError{}
	validID(v, "id", id)
	if err := v.Err(); err != nil {
		return nil, err
	}

	p, err := s.repomanager.Promocodes(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get promocode: %w", err)
	}
	if p.CreatorID != callerID {
		return nil, common.ErrorPermissionDenied
	}
	return p, nil
}

// UpdatePromocode applies the present fields of patch. A new code is
// checked against other records before the write.
func (s *PromocodeService) UpdatePromocode(ctx context.Context, id, callerID string, patch models.PromocodePatch) (*models.Promocode, error) {
	v := &common.ValidationError{}
	validID(v, "id", id)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var updated *models.Promocode
	err := s.inTx(ctx, nil, func(ctx context.Context, repo promocodes.Repository) error {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.CreatorID != callerID {
			return common.ErrorPermissionDenied
		}

		if patch.Name != nil {
			checkText(v, "name", *patch.Name, maxNameLength)
		}
		if patch.Discount != nil {
			checkDiscount(v, *patch.Discount)
		}
		if patch.Code != nil {
			checkCode(v, *patch.Code)
		}
		if err := v.Err(); err != nil {
			return err
		}

		if patch.Code != nil && *patch.Code != p.Code {
			taken, err := repo.CodeTaken(ctx, *patch.Code, p.ID)
			if err != nil {
				return err
			}
			if taken {
				return common.ErrorAlreadyExists
			}
		}

		patch.Apply(p)
		p.UpdatedAt = nextUpdate(s.now(), p.UpdatedAt)

		updated, err = repo.Update(ctx, p)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update promocode: %w", err)
	}
	return updated, nil
}

func (s *PromocodeService) DeletePromocode(ctx context.Context, id, callerID string) error {
	v := &common.ValidationError{}
	validID(v, "id", id)
	if err := v.Err(); err != nil {
		return err
	}

	err := s.inTx(ctx, nil, func(ctx context.Context, repo promocodes.Repository) error {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.CreatorID != callerID {
			return common.ErrorPermissionDenied
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete promocode: %w", err)
	}
	return nil
}

// ListPromocodes returns one page of callerID's promocodes and their total.
func (s *PromocodeService) ListPromocodes(ctx context.Context, callerID string, number, perPage int) ([]*models.Promocode, int64, error) {
	p, err := page(number, perPage)
	if err != nil {
		return nil, 0, err
	}

	var (
		items []*models.Promocode
		total int64
	)
	err = s.inTx(ctx, listTx, func(ctx context.Context, repo promocodes.Repository) error {
		var err error
		if items, err = repo.ListByCreator(ctx, callerID, p); err != nil {
			return err
		}
		total, err = repo.CountByCreator(ctx, callerID)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list promocodes: %w", err)
	}
	return items, total, nil
}
