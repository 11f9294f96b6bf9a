// AngelaMos | 2026
// routes_test.go

package main

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bythepixel/propixel/internal/admin"
	"github.com/bythepixel/propixel/internal/auth"
	"github.com/bythepixel/propixel/internal/client"
	"github.com/bythepixel/propixel/internal/company"
	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/health"
	"github.com/bythepixel/propixel/internal/proposal"
	"github.com/bythepixel/propixel/internal/testutil"
	"github.com/bythepixel/propixel/internal/user"
)

func routesConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Environment: config.EnvDevelopment},
		Session: config.SessionConfig{CookieName: testutil.CookieName},
		RateLimit: config.RateLimitConfig{
			Requests:      100,
			Burst:         100,
			Window:        time.Minute,
			LoginRequests: 5,
			LoginBurst:    5,
			UserRequests:  100,
			UserBurst:     100,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// buildRouter assembles the full surface with repositories that have no
// database behind them. Only routes that answer before touching storage
// are exercised.
func buildRouter(t *testing.T, cfg *config.Config) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	dir := t.TempDir()
	cfg.JWT = config.JWTConfig{
		PrivateKeyPath:     filepath.Join(dir, "private.pem"),
		PublicKeyPath:      filepath.Join(dir, "public.pem"),
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: time.Hour,
	}
	require.NoError(t, auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath))
	signer, err := auth.LoadSigner(cfg.JWT)
	require.NoError(t, err)

	userSvc := user.NewService(user.NewRepository(nil))
	clientRepo := client.NewRepository(nil)
	authSvc := auth.NewService(
		auth.NewRepository(nil), signer, userSvc, auth.NewRevocations(rdb), time.Hour,
	)

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
	}

	router := chi.NewRouter()
	require.NotPanics(t, func() {
		mountRoutes(router, routes{
			cfg:       cfg,
			logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			redis:     rdb,
			registry:  registry,
			verifier:  testutil.NewVerifier(),
			jwks:      signer.JWKS,
			health:    health.NewHandler(),
			auth:      auth.NewHandler(authSvc, cfg.Session),
			users:     user.NewHandler(userSvc),
			companies: company.NewHandler(company.NewService(company.NewRepository(nil))),
			clients:   client.NewHandler(client.NewService(clientRepo)),
			proposals: proposal.NewHandler(proposal.NewService(proposal.NewRepository(nil), clientRepo)),
			admin:     admin.NewHandler(admin.HandlerConfig{}),
		})
	})

	return router, mr
}

func TestMountRoutes(t *testing.T) {
	router, _ := buildRouter(t, routesConfig())

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"liveness", http.MethodGet, "/livez", "", http.StatusOK},
		{"readiness", http.MethodGet, "/readyz", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"jwks", http.MethodGet, "/.well-known/jwks.json", "", http.StatusOK},
		{"api needs a session", http.MethodGet, "/api/users", "", http.StatusUnauthorized},
		{"me needs a session", http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
		{"collection method", http.MethodPut, "/api/companies", testutil.StaffToken, http.StatusMethodNotAllowed},
		{"admin only", http.MethodGet, "/api/admin/stats", testutil.StaffToken, http.StatusForbidden},
		{"slugify", http.MethodGet, "/api/slugify?text=Acme%20Co", testutil.StaffToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Do(t, router, tt.method, tt.path, "", tt.token)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMountRoutesWithoutMetrics(t *testing.T) {
	cfg := routesConfig()
	cfg.Metrics.Enabled = false
	router, _ := buildRouter(t, cfg)

	rec := testutil.Do(t, router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMountRoutesLimitsEachAccount(t *testing.T) {
	cfg := routesConfig()
	cfg.RateLimit.UserRequests = 1
	cfg.RateLimit.UserBurst = 1
	router, mr := buildRouter(t, cfg)

	first := testutil.Do(t, router, http.MethodGet, "/api/slugify?text=a", "", testutil.StaffToken)
	require.Equal(t, http.StatusOK, first.Code)

	second := testutil.Do(t, router, http.MethodGet, "/api/slugify?text=a", "", testutil.StaffToken)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, mr.Keys(), "rate:rl:user:user:2")

	other := testutil.Do(t, router, http.MethodGet, "/api/slugify?text=a", "", testutil.AdminToken)
	assert.Equal(t, http.StatusOK, other.Code, "budgets are per account")
}
