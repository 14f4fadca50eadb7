package models

import "time"

type Promocode struct {
	ID          string
	Name        string
	Description string
	CreatorID   string
	Discount    float64
	Code        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PromocodePatch is a partial promocode update; nil means "leave unchanged".
type PromocodePatch struct {
	Name        *string
	Description *string
	Discount    *float64
	Code        *string
}

// Apply copies present fields onto p. Validation is the caller's job.
func (pp PromocodePatch) Apply(p *Promocode) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Discount != nil {
		p.Discount = *pp.Discount
	}
	if pp.Code != nil {
		p.Code = *pp.Code
	}
}
