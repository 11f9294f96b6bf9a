// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/middleware"
)

func newTestRouter(f *fixture) http.Handler {
	session := config.SessionConfig{CookieName: "propixel_session"}
	h := NewHandler(f.service, session)

	r := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	h.RegisterRoutes(r, middleware.Authenticator(f.verifier, session.CookieName), passthrough)
	return r
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "propixel_session" {
			return c
		}
	}
	return nil
}

func TestLoginHandlerSetsSessionCookie(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	body := `{"email":"admin@bythepixel.com","password":"` + testPassword + `"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, resp.Tokens.AccessToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var me UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, "admin@bythepixel.com", me.Email)
}

func TestLoginHandlerRejections(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"malformed", `{`, http.StatusBadRequest, "Invalid request body"},
		{"missing password", `{"email":"admin@bythepixel.com"}`, http.StatusBadRequest, msgCredentialsRequired},
		{"wrong password", `{"email":"admin@bythepixel.com","password":"nope"}`, http.StatusUnauthorized, "Invalid email or password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.msg+`"}`, rec.Body.String())
		})
	}
}

func TestLogoutHandlerClearsCookie(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	resp := login(t, f)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Tokens.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Tokens.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionsHandlerMarksCurrentSession(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	login(t, f)
	resp := login(t, f)

	req := httptest.NewRequest(http.MethodGet, "/auth/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Tokens.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body SessionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Sessions, 2)

	var current []string
	for _, s := range body.Sessions {
		if s.Current {
			current = append(current, s.ID)
		}
	}
	assert.Equal(t, []string{resp.Tokens.SessionID}, current)
}

func TestRefreshHandlerReplay(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	resp := login(t, f)

	refresh := func(secret string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		body := `{"refreshToken":"` + secret + `"}`
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(body)))
		return rec
	}

	require.Equal(t, http.StatusOK, refresh(resp.Tokens.RefreshToken).Code)

	rec := refresh(resp.Tokens.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"`+msgSecretReplayed+`"}`, rec.Body.String())
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}
