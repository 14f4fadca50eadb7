package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/identity/services"
	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	args := m.Called(ctx, username, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	args := m.Called(ctx, username, password)
	p, _ := args.Get(0).(*services.TokenPair)
	return p, args.Error(1)
}

func (m *MockUserService) VerifyToken(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	id, _ := args.Get(0).(*models.Identity)
	return id, args.Error(1)
}

func (m *MockUserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.User, error) {
	args := m.Called(ctx, userID, patch)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

const aliceID = "0b6a9f7e-3c1d-4e5f-8a9b-0c1d2e3f4a5b"

var expires = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T, ping func(context.Context) error) (*MockUserService, http.Handler) {
	t.Helper()
	svc := &MockUserService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })
	return svc, NewHandler(svc, logging.Nop{}, ping).Router(nil)
}

func do(h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func (m *MockUserService) expectAlice(token string) {
	m.On("VerifyToken", mock.Anything, token).
		Return(&models.Identity{UserID: aliceID, UserName: "alice", ExpiresAt: expires}, nil)
}

func TestRegister(t *testing.T) {
	svc, h := newServer(t, nil)
	svc.On("Register", mock.Anything, "alice", "alice@example.com", "pw").
		Return(&models.User{ID: aliceID, UserName: "alice", Email: "alice@example.com"}, nil)

	rec := do(h, http.MethodPost, "/register", `{"username":"alice","email":"alice@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User registered successfully!","user":{"id":"`+aliceID+`","username":"alice","email":"alice@example.com"}}`, rec.Body.String())
}

func TestRegister_Duplicate(t *testing.T) {
	svc, h := newServer(t, nil)
	svc.On("Register", mock.Anything, "alice", "alice@example.com", "pw").
		Return(nil, common.ErrorAlreadyExists)

	rec := do(h, http.MethodPost, "/register", `{"username":"alice","email":"alice@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"detail":"Username or Email already registered"}`, rec.Body.String())
}

func TestRegister_InvalidInput(t *testing.T) {
	_, h := newServer(t, nil)

	rec := do(h, http.MethodPost, "/register", `{"username":"alice","email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid input","errors":[
		{"field":"email","description":"must be a valid email address"},
		{"field":"password","description":"is required"}]}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/register", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_FormAndJSON(t *testing.T) {
	svc, h := newServer(t, nil)
	svc.On("Login", mock.Anything, "alice", "pw").
		Return(&services.TokenPair{AccessToken: "tok", TokenType: "bearer"}, nil).Twice()

	form := url.Values{"username": {"alice"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"tok","token_type":"bearer"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/login", `{"username":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_Failures(t *testing.T) {
	svc, h := newServer(t, nil)
	svc.On("Login", mock.Anything, "alice", "bad").Return(nil, common.ErrorUnauthorized)

	rec := do(h, http.MethodPost, "/login", `{"username":"alice","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid username or password"}`, rec.Body.String())
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = do(h, http.MethodPost, "/login", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Username and password required"}`, rec.Body.String())
}

func TestVerifyToken(t *testing.T) {
	svc, h := newServer(t, nil)
	svc.expectAlice("good")
	svc.On("VerifyToken", mock.Anything, "old").Return(nil, common.ErrTokenExpired)
	svc.On("VerifyToken", mock.Anything, "junk").Return(nil, common.ErrInvalidToken)

	rec := do(h, http.MethodGet, "/verify-token", "", "Authorization", "bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"`+aliceID+`","username":"alice","expires_at":"2025-06-01T12:00:00Z"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/verify-token", "", "Authorization", "Bearer old")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Token expired"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/verify-token", "", "Authorization", "Bearer junk")
	assert.JSONEq(t, `{"detail":"Invalid token"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/verify-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, rec.Body.String())
}

func TestProfile_NullsKeptOrDropped(t *testing.T) {
	svc, h := newServer(t, nil)
	svc.expectAlice("tok")
	birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	first := "Alice"
	svc.On("Profile", mock.Anything, aliceID).
		Return(&models.User{ID: aliceID, UserName: "alice", Email: "alice@example.com", FirstName: &first, BirthDate: &birth}, nil)

	rec := do(h, http.MethodGet, "/profile", "", "Authorization", "Bearer tok")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","email":"alice@example.com","first_name":"Alice","last_name":null,"birth_date":"1990-05-17","phone":null}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/protected-resource", "", "Authorization", "Bearer tok")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","email":"alice@example.com","first_name":"Alice","birth_date":"1990-05-17"}`, rec.Body.String())
}

func TestUpdateProfile(t *testing.T) {
	svc, h := newServer(t, nil)
	svc.expectAlice("tok")
	phone := "+1"
	email := "new@example.com"
	empty := ""
	svc.On("UpdateProfile", mock.Anything, aliceID, models.ProfilePatch{Phone: &phone, LastName: &empty}).
		Return(&models.User{UserName: "alice", Email: "alice@example.com", Phone: &phone}, nil)
	svc.On("UpdateProfile", mock.Anything, aliceID, models.ProfilePatch{Email: &email}).
		Return(nil, fmt.Errorf("update profile: %w", common.ErrorAlreadyExists))

	rec := do(h, http.MethodPut, "/update-profile", `{"phone":"+1","last_name":""}`, "Authorization", "Bearer tok")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Profile updated successfully","user":{"username":"alice","email":"alice@example.com","first_name":null,"last_name":null,"birth_date":null,"phone":"+1"}}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/update-profile", `{"email":"new@example.com"}`, "Authorization", "Bearer tok")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"detail":"Email is already in use"}`, rec.Body.String())
}

func TestUpdateProfile_ErrorMapping(t *testing.T) {
	svc, h := newServer(t, nil)
	svc.expectAlice("tok")
	bad := "17.05.1990"
	phone := "x"
	svc.On("UpdateProfile", mock.Anything, aliceID, models.ProfilePatch{BirthDate: &bad}).
		Return(nil, common.Invalid("birth_date", "must be a date in YYYY-MM-DD format"))
	svc.On("UpdateProfile", mock.Anything, aliceID, models.ProfilePatch{Phone: &phone}).
		Return(nil, common.ErrorNotFound)
	svc.On("UpdateProfile", mock.Anything, aliceID, models.ProfilePatch{}).
		Return(nil, errors.New("db down"))

	rec := do(h, http.MethodPut, "/update-profile", `{"birth_date":"17.05.1990"}`, "Authorization", "Bearer tok")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"birth_date"`)

	rec = do(h, http.MethodPut, "/update-profile", `{"phone":"x"}`, "Authorization", "Bearer tok")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPut, "/update-profile", ``, "Authorization", "Bearer tok")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal error"}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	_, h := newServer(t, func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", "").Code)

	_, h = newServer(t, func(context.Context) error { return errors.New("down") })
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/healthz", "").Code)
}
