// Package services contains the resource service business rules: input
// validation, ownership and visibility checks, and transaction boundaries.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/posts"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/repomanager"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/google/uuid"
)

// listTx gives the page and its total one consistent snapshot.
var listTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// PostService manages posts. Public posts are readable by every caller,
// private posts only by their owner; only the owner may change or delete.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m, now: time.Now, newID: uuid.NewString}
}

func (s *PostService) inTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, repo posts.Repository) error) error {
	return dbx.InTx(ctx, s.db, opts, s.repomanager.Posts, fn)
}

// CreatePost stores a new post owned by ownerID. created_at and
// updated_at are set to the same instant.
func (s *PostService) CreatePost(ctx context.Context, ownerID, title, description string, isPrivate bool, tags []string) (*models.Post, error) {
	v := &common.ValidationError{}
	validID(v, "creator_id", ownerID)
	checkText(v, "title", title, maxTitleLength)
	if blank(description) {
		v.Add("description", "must not be empty")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []string{}
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	post := &models.Post{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		CreatorID:   ownerID,
		IsPrivate:   isPrivate,
		Tags:        append([]string{}, tags...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created *models.Post
	err := s.inTx(ctx, nil, func(ctx context.Context, repo posts.Repository) error {
		var err error
		created, err = repo.Create(ctx, post)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// GetPost returns the post if callerID may see it.
func (s *PostService) GetPost(ctx context.Context, id, callerID string) (*models.Post, error) {
	v := &common.ValidationError{}
	validID(v, "id", id)
	if err := v.Err(); err != nil {
		return nil, err
	}

	post, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if !post.VisibleTo(callerID) {
		return nil, common.ErrorPermissionDenied
	}
	return post, nil
}

// UpdatePost applies the present fields of patch. The row is locked for
// the duration of the change; ownership is checked before any write and
// updated_at always moves forward, even for an empty patch.
func (s *PostService) UpdatePost(ctx context.Context, id, callerID string, patch models.PostPatch) (*models.Post, error) {
	v := &common.ValidationError{}
	validID(v, "id", id)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var updated *models.Post
	err := s.inTx(ctx, nil, func(ctx context.Context, repo posts.Repository) error {
		post, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if post.CreatorID != callerID {
			return common.ErrorPermissionDenied
		}

		if patch.Title != nil {
			checkText(v, "title", *patch.Title, maxTitleLength)
		}
		if patch.Description != nil && blank(*patch.Description) {
			v.Add("description", "must not be empty")
		}
		if err := v.Err(); err != nil {
			return err
		}

		patch.Apply(post)
		post.UpdatedAt = nextUpdate(s.now(), post.UpdatedAt)

		updated, err = repo.Update(ctx, post)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// DeletePost removes a post owned by callerID.
func (s *PostService) DeletePost(ctx context.Context, id, callerID string) error {
	v := &common.ValidationError{}
	validID(v, "id", id)
	if err := v.Err(); err != nil {
		return err
	}

	err := s.inTx(ctx, nil, func(ctx context.Context, repo posts.Repository) error {
		post, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if post.CreatorID != callerID {
			return common.ErrorPermissionDenied
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ListPosts returns one page of the posts callerID may see, ordered by
// creation time, and the total number of such posts.
func (s *PostService) ListPosts(ctx context.Context, callerID string, number, perPage int) ([]*models.Post, int64, error) {
	p, err := page(number, perPage)
	if err != nil {
		return nil, 0, err
	}

	var (
		items []*models.Post
		total int64
	)
	err = s.inTx(ctx, listTx, func(ctx context.Context, repo posts.Repository) error {
		var err error
		if items, err = repo.ListVisible(ctx, callerID, p); err != nil {
			return err
		}
		total, err = repo.CountVisible(ctx, callerID)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return items, total, nil
}
