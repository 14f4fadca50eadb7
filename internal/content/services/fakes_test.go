package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/posts"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/promocodes"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/models"
)

const (
	alice = "0b6a9f7e-3c1d-4e5f-8a9b-0c1d2e3f4a5b"
	bob   = "1c7b0a8f-4d2e-4f60-9bac-1d2e3f4a5b6c"
	ghost = "2d8c1b90-5e3f-4071-8cbd-2e3f4a5b6c7d"
)

type memPosts struct {
	rows    map[string]models.Post
	creates int
	updates int
	deletes int
}

func clonePost(p models.Post) *models.Post {
	p.Tags = append([]string{}, p.Tags...)
	return &p
}

func (m *memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.creates++
	m.rows[p.ID] = *clonePost(*p)
	return p, nil
}

func (m *memPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clonePost(p), nil
}

func (m *memPosts) GetForUpdate(ctx context.Context, id string) (*models.Post, error) {
	return m.GetByID(ctx, id)
}

func (m *memPosts) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	if _, ok := m.rows[p.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	m.updates++
	m.rows[p.ID] = *clonePost(*p)
	return p, nil
}

func (m *memPosts) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrorNotFound
	}
	m.deletes++
	delete(m.rows, id)
	return nil
}

func (m *memPosts) visible(userID string) []*models.Post {
	var out []*models.Post
	for _, p := range m.rows {
		if p.CreatorID == userID || !p.IsPrivate {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memPosts) ListVisible(_ context.Context, userID string, page models.Page) ([]*models.Post, error) {
	all := m.visible(userID)
	from := min(page.Offset(), len(all))
	to := min(from+page.PerPage, len(all))
	return all[from:to], nil
}

func (m *memPosts) CountVisible(_ context.Context, userID string) (int64, error) {
	return int64(len(m.visible(userID))), nil
}

type memPromos struct {
	rows map[string]models.Promocode
	// raceOnCreate simulates another writer taking the code between the
	// pre-check and the insert.
	raceOnCreate bool
	creates      int
}

func (m *memPromos) Create(_ context.Context, p *models.Promocode) (*models.Promocode, error) {
	if m.raceOnCreate {
		return nil, common.ErrorAlreadyExists
	}
	for _, r := range m.rows {
		if r.Code == p.Code {
			return nil, common.ErrorAlreadyExists
		}
	}
	m.creates++
	m.rows[p.ID] = *p
	return p, nil
}

func (m *memPromos) GetByID(_ context.Context, id string) (*models.Promocode, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (m *memPromos) GetForUpdate(ctx context.Context, id string) (*models.Promocode, error) {
	return m.GetByID(ctx, id)
}

func (m *memPromos) Update(_ context.Context, p *models.Promocode) (*models.Promocode, error) {
	m.rows[p.ID] = *p
	return p, nil
}

func (m *memPromos) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memPromos) owned(userID string) []*models.Promocode {
	var out []*models.Promocode
	for _, p := range m.rows {
		if p.CreatorID == userID {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memPromos) ListByCreator(_ context.Context, userID string, page models.Page) ([]*models.Promocode, error) {
	all := m.owned(userID)
	from := min(page.Offset(), len(all))
	to := min(from+page.PerPage, len(all))
	return all[from:to], nil
}

func (m *memPromos) CountByCreator(_ context.Context, userID string) (int64, error) {
	return int64(len(m.owned(userID))), nil
}

func (m *memPromos) CodeTaken(_ context.Context, code, exceptID string) (bool, error) {
	for id, r := range m.rows {
		if r.Code == code && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

type fakeRepoManager struct {
	posts  *memPosts
	promos *memPromos
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Posts(dbx.DBTX) posts.Repository               { return m.posts }
func (m *fakeRepoManager) Promocodes(dbx.DBTX) promocodes.Repository     { return m.promos }

// clock advances one second per reading.
type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type env struct {
	mock   sqlmock.Sqlmock
	posts  *PostService
	promos *PromocodeService
	pr     *memPosts
	cr     *memPromos
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		db.Close()
	})

	rm := &fakeRepoManager{
		posts:  &memPosts{rows: map[string]models.Post{}},
		promos: &memPromos{rows: map[string]models.Promocode{}},
	}
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	ps := NewPostService(db, rm)
	ps.now = c.now
	cs := NewPromocodeService(db, rm)
	cs.now = c.now

	return &env{mock: mock, posts: ps, promos: cs, pr: rm.posts, cr: rm.promos}
}

func (e *env) commit() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *env) rollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func ptr[T any](v T) *T { return &v }
