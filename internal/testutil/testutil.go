// AngelaMos | 2026
// testutil.go

// Package testutil holds helpers shared by handler tests: a fixed set of
// sessions and a router wired the way the server wires /api.
package testutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/middleware"
)

const (
	CookieName = "propixel_session"

	AdminToken = "admin-session"
	StaffToken = "staff-session"

	AdminID int64 = 1
	StaffID int64 = 2
)

type Verifier struct {
	sessions map[string]*middleware.AccessTokenClaims
}

func NewVerifier() *Verifier {
	return &Verifier{sessions: map[string]*middleware.AccessTokenClaims{
		AdminToken: {UserID: AdminID, IsAdmin: true, TokenID: "admin-jti"},
		StaffToken: {UserID: StaffID, TokenID: "staff-jti"},
	}}
}

func (v *Verifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, ok := v.sessions[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	copied := *claims
	return &copied, nil
}

// APIRouter mounts routes under /api behind the session gate.
func APIRouter(mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticator(NewVerifier(), CookieName))
		mount(r)
	})
	return r
}

// Do sends a request with an optional JSON body. An empty token sends the
// request without a session.
func Do(
	t *testing.T,
	h http.Handler,
	method, path, body, token string,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func ErrorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return Decode[core.ErrorResponse](t, rec).Error
}
