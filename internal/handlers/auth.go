package handlers

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/render"

	"blogpulse/internal/errs"
	"blogpulse/internal/middleware"
	"blogpulse/internal/models"
	"blogpulse/internal/session"
	"blogpulse/internal/store"
)

const minPasswordLen = 8

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Register creates a new account with the user role and starts a session.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondErr(w, r, errs.New(errs.KindValidation, "invalid email address"))
		return
	}
	if len(req.Password) < minPasswordLen {
		respondErr(w, r, errs.Newf(errs.KindValidation, "password must be at least %d characters", minPasswordLen))
		return
	}
	if req.DisplayName == "" {
		respondErr(w, r, errs.New(errs.KindValidation, "display name is required"))
		return
	}

	user, err := a.users.Create(r.Context(), req.Email, req.Password, req.DisplayName, models.RoleUser)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if err := a.startSession(w, r, user); err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and starts a session. Lookup and password
// failures share one message so the endpoint does not leak which emails
// are registered.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondErr(w, r, errs.New(errs.KindPermission, "invalid email or password"))
		return
	}

	if err := a.startSession(w, r, user); err != nil {
		respondErr(w, r, err)
		return
	}

	render.JSON(w, r, user)
}

// Logout destroys the current session. Safe to call unauthenticated.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	render.JSON(w, r, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondErr(w, r, errs.New(errs.KindPermission, "authentication required"))
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if user == nil {
		// Account deleted while the session was still live.
		respondErr(w, r, errs.New(errs.KindNotFound, "user not found"))
		return
	}

	render.JSON(w, r, user)
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	})
	return err
}
