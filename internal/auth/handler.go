// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/middleware"
)

const (
	msgCredentialsRequired = "Email and password are required"
	msgTokenRequired       = "Refresh token is required"
	msgPasswordRequired    = "Current password and a new password of at least 8 characters are required"
	msgWrongPassword       = "Current password is incorrect"
	msgSessionExpired      = "Session expired"
	msgSecretReplayed      = "Session ended after its refresh token was reused"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	session   config.SessionConfig
}

func NewHandler(service *Service, session config.SessionConfig) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		session:   session,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	loginLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", h.Login)
		r.With(loginLimiter).Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
			r.Get("/sessions", h.GetSessions)
			r.Delete("/sessions/{sessionID}", h.RevokeSession)
			r.Post("/change-password", h.ChangePassword)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, msgCredentialsRequired)
		return
	}

	resp, err := h.service.Login(r.Context(), req, device(r))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Error(w, http.StatusUnauthorized, core.MsgInvalidCredential)
			return
		}
		core.HandleError(w, r, err)
		return
	}

	h.setSessionCookie(w, resp.Tokens.AccessToken, resp.Tokens.ExpiresAt)
	core.OK(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, msgTokenRequired)
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken, device(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrSecretReplayed):
			h.clearSessionCookie(w)
			core.Error(w, http.StatusUnauthorized, msgSecretReplayed)
		case errors.Is(err, core.ErrTokenExpired),
			errors.Is(err, core.ErrTokenRevoked),
			errors.Is(err, core.ErrTokenInvalid):
			h.clearSessionCookie(w)
			core.Error(w, http.StatusUnauthorized, msgSessionExpired)
		default:
			core.HandleError(w, r, err)
		}
		return
	}

	h.setSessionCookie(w, resp.Tokens.AccessToken, resp.Tokens.ExpiresAt)
	core.OK(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w)
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		core.HandleError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		core.HandleError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	core.NoContent(w)
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w)
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), claims.UserID, claims.SessionID)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, SessionsResponse{Sessions: sessions})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	err := h.service.RevokeSession(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "sessionID"),
	)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, msgPasswordRequired)
		return
	}

	err := h.service.ChangePassword(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.CurrentPassword,
		req.NewPassword,
	)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.BadRequest(w, msgWrongPassword)
			return
		}
		core.HandleError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	core.NoContent(w)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetCurrentUser(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, user)
}

// setSessionCookie mirrors the access token into an HttpOnly cookie so the
// console never has to keep it in script-readable storage.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	c := h.cookie(token)
	c.Expires = expiresAt
	c.MaxAge = int(time.Until(expiresAt).Seconds())
	http.SetCookie(w, c)
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	c := h.cookie("")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (h *Handler) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     h.session.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.session.Domain,
		Secure:   h.session.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func device(r *http.Request) Device {
	return Device{
		UserAgent: r.UserAgent(),
		IPAddress: middleware.ClientIP(r),
	}
}
