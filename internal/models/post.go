package models

import "time"

type Post struct {
	ID          string
	Title       string
	Description string
	CreatorID   string
	IsPrivate   bool
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VisibleTo reports whether userID may read the post.
func (p *Post) VisibleTo(userID string) bool {
	return !p.IsPrivate || p.CreatorID == userID
}

// PostPatch is a partial post update; nil means "leave unchanged".
type PostPatch struct {
	Title       *string
	Description *string
	IsPrivate   *bool
	Tags        *[]string
}

// Apply copies present fields onto p. Validation is the caller's job.
func (pp PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.IsPrivate != nil {
		p.IsPrivate = *pp.IsPrivate
	}
	if pp.Tags != nil {
		p.Tags = append([]string{}, (*pp.Tags)...)
	}
}
