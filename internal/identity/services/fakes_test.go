package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postpromo/internal/auth"
	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/identity/repositories/users"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/google/uuid"
)

type memUsers struct {
	rows map[string]models.User
	// raceOnCreate simulates a concurrent registration winning the
	// unique constraint after the pre-check passed.
	raceOnCreate bool
	creates      int
	updates      int
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if m.raceOnCreate {
		return nil, common.ErrorAlreadyExists
	}
	m.creates++
	m.rows[u.ID] = *u
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByUserName(_ context.Context, name string) (*models.User, error) {
	for _, u := range m.rows {
		if u.UserName == name {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	return m.GetByID(ctx, id)
}

func (m *memUsers) ExistsByUserNameOrEmail(_ context.Context, name, email string) (bool, error) {
	for _, u := range m.rows {
		if u.UserName == name || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) ExistsByEmailExcept(_ context.Context, email, exceptID string) (bool, error) {
	for id, u := range m.rows {
		if u.Email == email && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Update(_ context.Context, u *models.User) (*models.User, error) {
	m.updates++
	m.rows[u.ID] = *u
	return u, nil
}

type fakeRepoManager struct{ users *memUsers }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type env struct {
	mock      sqlmock.Sqlmock
	svc       *UserService
	repo      *memUsers
	authority *auth.Authority
	ids       []string
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

	e := &env{
		mock:      mock,
		repo:      &memUsers{rows: map[string]models.User{}},
		authority: auth.NewAuthority([]byte("test-secret"), time.Hour),
		ids:       []string{alice, bob},
	}
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	e.svc = NewUserService(db, &fakeRepoManager{users: e.repo}, e.authority)
	e.svc.now = c.now
	// Seeded ids first, random ones once they run out.
	e.svc.newID = func() string {
		if len(e.ids) == 0 {
			return uuid.NewString()
		}
		id := e.ids[0]
		e.ids = e.ids[1:]
		return id
	}
	return e
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

const (
	alice = "0b6a9f7e-3c1d-4e5f-8a9b-0c1d2e3f4a5b"
	bob   = "1c7b0a8f-4d2e-4f60-9bac-1d2e3f4a5b6c"
)
