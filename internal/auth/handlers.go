package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/models"
	"greenspark-backend/internal/respond"
	"greenspark-backend/internal/storage"
)

type UserStore interface {
	UserLookup
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Handler struct {
	users   UserStore
	auth    *Authenticator
	cookies CookiePolicy
	log     logging.Logger
}

func NewHandler(users UserStore, auth *Authenticator, cookies CookiePolicy, log logging.Logger) *Handler {
	return &Handler{
		users:   users,
		auth:    auth,
		cookies: cookies,
		log:     log.With("component", "auth"),
	}
}

// RegisterRoutes mounts the auth endpoints. limit, when non-nil, wraps the
// credential-accepting routes.
func (h *Handler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limit != nil {
				r.Use(limit)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.Get("/check-auth", h.CheckAuth)
		r.Post("/logout", h.Logout)
	})
}

type registerResponse struct {
	Msg   string       `json:"msg"`
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type loginResponse struct {
	Msg  string       `json:"msg"`
	User *models.User `json:"user"`
}

type checkAuthResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Register creates an account and starts a session
// @Summary Register
// @Description Creates a user, sets the session cookie and also returns the token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RegisterInput true "New account"
// @Success 201 {object} registerResponse
// @Failure 400 {object} map[string]string "Validation error or user already exists"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Failure 500 {object} map[string]string "Registration failed"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.Email = normalizeEmail(in.Email)
	if err := models.Validate(in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	// The unique constraint in the store is what actually guarantees
	// uniqueness; this lookup only avoids hashing for an obvious duplicate.
	_, err := h.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		respond.Error(w, http.StatusBadRequest, "User already exists")
		return
	case !errors.Is(err, storage.ErrUserNotFound):
		h.log.Error(ctx, "register: lookup email", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			respond.Error(w, http.StatusBadRequest, "password must be at most 72 bytes")
			return
		}
		h.log.Error(ctx, "register: hash password", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			respond.Error(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.log.Error(ctx, "register: create user", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := h.auth.tokens.Issue(user.ID)
	if err != nil {
		h.log.Error(ctx, "register: issue token", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	h.cookies.Set(w, token)
	h.log.Info(ctx, "user registered", "user_id", user.ID)
	respond.JSON(w, http.StatusCreated, registerResponse{
		Msg:   "Registration successful",
		User:  user,
		Token: token,
	})
}

// Login authenticates a user and sets the session cookie
// @Summary User login
// @Description Authenticates user with email and password and sets the token cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginInput true "Login credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Failure 500 {object} map[string]string "Login failed"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := models.Validate(in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	user, err := h.users.GetUserByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			burnCompare(in.Password)
			respond.Error(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.log.Error(ctx, "login: lookup email", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	ok, err := CheckPassword(in.Password, user.PasswordHash)
	if err != nil {
		h.log.Error(ctx, "login: compare password", "user_id", user.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := h.auth.tokens.Issue(user.ID)
	if err != nil {
		h.log.Error(ctx, "login: issue token", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.cookies.Set(w, token)
	respond.JSON(w, http.StatusOK, loginResponse{Msg: "Login successful", User: user})
}

// CheckAuth reports whether the session cookie belongs to a live user
// @Summary Check session
// @Description 404 means no cookie was sent, 401 means the cookie is not a valid session
// @Tags auth
// @Produce json
// @Success 200 {object} checkAuthResponse
// @Failure 401 {object} checkAuthResponse
// @Failure 404 {object} checkAuthResponse
// @Router /auth/check-auth [get]
func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.auth.Authenticate(r)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, checkAuthResponse{
			LoggedIn: true,
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
		})
	case errors.Is(err, ErrNoSession):
		respond.JSON(w, http.StatusNotFound, checkAuthResponse{})
	case Unauthenticated(err):
		h.cookies.Clear(w)
		respond.JSON(w, http.StatusUnauthorized, checkAuthResponse{})
	default:
		h.log.Error(r.Context(), "check-auth", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Server error")
	}
}

// Logout clears the session cookie
// @Summary User logout
// @Description Clears the token cookie. The token is only revoked server side when REVOKE_ON_LOGOUT is enabled.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.auth.revoked != nil {
		h.revoke(r)
	}

	h.cookies.Clear(w)
	respond.JSON(w, http.StatusOK, map[string]string{"msg": "Logged out successfully"})
}

func (h *Handler) revoke(r *http.Request) {
	raw, err := ReadToken(r)
	if err != nil {
		return
	}
	claims, err := h.auth.tokens.Parse(raw)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	if err := h.auth.revoked.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.log.Error(r.Context(), "logout: revoke token", "jti", claims.ID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
