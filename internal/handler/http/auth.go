package http

import (
	"log/slog"
	"net/http"

	"github.com/danupra/hrisgo/internal/service"
	"github.com/danupra/hrisgo/pkg/httputil"
	"github.com/danupra/hrisgo/pkg/validator"
)

// AuthHandler handles the session lifecycle endpoints.
type AuthHandler struct {
	sessions *service.SessionService
	cookies  *cookieWriter
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(sessions *service.SessionService, cookies *cookieWriter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookies: cookies, logger: logger}
}

// SignUpRequest is the JSON request body for registration.
type SignUpRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// SignInRequest is the JSON request body for email sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SignUpRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	_, pair, err := h.sessions.SignUp(r.Context(), service.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.cookies.set(w, pair.RefreshToken, true)
	httputil.WriteOK(w, http.StatusCreated, pair.AccessToken, "new user created")
}

// SignInEmail handles POST /api/v1/auth/signin/email
func (h *AuthHandler) SignInEmail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SignInRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	presented := h.cookies.read(r)

	pair, err := h.sessions.SignIn(r.Context(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
		Cookie:   presented,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if presented != "" {
		h.cookies.clear(w)
	}
	h.cookies.set(w, pair.RefreshToken, false)
	httputil.WriteOK(w, http.StatusOK, pair.AccessToken, "ok")
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	presented := h.cookies.read(r)

	// The presented cookie is single-use: it is cleared before the outcome
	// is known, including the failure paths.
	if presented != "" {
		h.cookies.clear(w)
	}

	pair, err := h.sessions.Refresh(r.Context(), presented)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.cookies.set(w, pair.RefreshToken, false)
	httputil.WriteOK(w, http.StatusOK, pair.AccessToken, "ok")
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	presented := h.cookies.read(r)

	err := h.sessions.Logout(r.Context(), presented)
	if presented != "" {
		h.cookies.clear(w)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, nil, "logout success")
}
