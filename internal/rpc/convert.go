package rpc

import (
	"github.com/dmitrijs2005/postpromo/internal/models"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func PostFromModel(p *models.Post) *Post {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Post{
		Id:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		CreatorId:   p.CreatorID,
		IsPrivate:   p.IsPrivate,
		Tags:        tags,
		CreatedAt:   timestamppb.New(p.CreatedAt),
		UpdatedAt:   timestamppb.New(p.UpdatedAt),
	}
}

func (p *Post) Model() *models.Post {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Post{
		ID:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		CreatorID:   p.CreatorId,
		IsPrivate:   p.IsPrivate,
		Tags:        tags,
		CreatedAt:   p.CreatedAt.AsTime(),
		UpdatedAt:   p.UpdatedAt.AsTime(),
	}
}

func (r *UpdatePostRequest) Patch() models.PostPatch {
	return models.PostPatch{
		Title:       r.Title,
		Description: r.Description,
		IsPrivate:   r.IsPrivate,
		Tags:        r.Tags,
	}
}

func PromocodeFromModel(p *models.Promocode) *Promocode {
	return &Promocode{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatorId:   p.CreatorID,
		Discount:    p.Discount,
		Code:        p.Code,
		CreatedAt:   timestamppb.New(p.CreatedAt),
		UpdatedAt:   timestamppb.New(p.UpdatedAt),
	}
}

func (p *Promocode) Model() *models.Promocode {
	return &models.Promocode{
		ID:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		CreatorID:   p.CreatorId,
		Discount:    p.Discount,
		Code:        p.Code,
		CreatedAt:   p.CreatedAt.AsTime(),
		UpdatedAt:   p.UpdatedAt.AsTime(),
	}
}

func (r *UpdatePromocodeRequest) Patch() models.PromocodePatch {
	return models.PromocodePatch{
		Name:        r.Name,
		Description: r.Description,
		Discount:    r.Discount,
		Code:        r.Code,
	}
}
