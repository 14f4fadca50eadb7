package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/models"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,notblank,max=150"`
	Email    string `json:"email" validate:"required,emailaddr,max=255"`
	Password string `json:"password" validate:"required"`
}

type registeredUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerResponse struct {
	Message string         `json:"message"`
	User    registeredUser `json:"user"`
}

// profileResponse keeps unset fields as null.
type profileResponse struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	BirthDate *string `json:"birth_date"`
	Phone     *string `json:"phone"`
}

// compactProfile drops unset fields.
type compactProfile struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type updateProfileResponse struct {
	Message string          `json:"message"`
	User    profileResponse `json:"user"`
}

func toProfile(u *models.User) profileResponse {
	p := profileResponse{
		Username:  u.UserName,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format(models.BirthDateLayout)
		p.BirthDate = &d
	}
	return p
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.WriteViolations(w, "Invalid input", httpx.Violations(err))
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "Username or Email already registered")
		return
	}

	h.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, registerResponse{
		Message: "User registered successfully!",
		User:    registeredUser{ID: user.ID, Username: user.UserName, Email: user.Email},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	creds, err := httpx.DecodeCredentials(w, r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(creds); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	pair, err := h.users.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}

func (h *Handler) verifyToken(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	httpx.WriteJSON(w, http.StatusOK, id)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var patch models.ProfilePatch
	if err := httpx.DecodeJSON(w, r, &patch); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), id.UserID, patch)
	if err != nil {
		h.fail(w, r, err, "Email is already in use")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updateProfileResponse{
		Message: "Profile updated successfully",
		User:    toProfile(user),
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	user, err := h.users.Profile(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfile(user))
}

func (h *Handler) protectedResource(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	user, err := h.users.Profile(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, compactProfile(toProfile(user)))
}
