// AngelaMos | 2026
// routes.go

package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/bythepixel/propixel/internal/admin"
	"github.com/bythepixel/propixel/internal/auth"
	"github.com/bythepixel/propixel/internal/client"
	"github.com/bythepixel/propixel/internal/company"
	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/health"
	"github.com/bythepixel/propixel/internal/middleware"
	"github.com/bythepixel/propixel/internal/proposal"
	"github.com/bythepixel/propixel/internal/slug"
	"github.com/bythepixel/propixel/internal/user"
)

// routes is everything mountRoutes needs to assemble the HTTP surface.
type routes struct {
	cfg    *config.Config
	logger *slog.Logger
	redis  *redis.Client
	// registry is nil when metrics are disabled.
	registry *prometheus.Registry
	verifier middleware.TokenVerifier
	jwks     http.HandlerFunc

	health    *health.Handler
	auth      *auth.Handler
	users     *user.Handler
	companies *company.Handler
	clients   *client.Handler
	proposals *proposal.Handler
	admin     *admin.Handler
}

// mountRoutes installs middleware and routes on router. chi panics when Use
// follows a route on the same mux, so every Use comes first.
func mountRoutes(router chi.Router, rt routes) {
	cfg := rt.cfg

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(rt.logger))
	if rt.registry != nil {
		router.Use(middleware.NewHTTPMetrics(rt.registry).Handler)
	}
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(limiter(rt.redis, "global", middleware.KeyByIP, middleware.PerWindow(
		cfg.RateLimit.Requests,
		cfg.RateLimit.Burst,
		cfg.RateLimit.Window,
	)))

	if rt.registry != nil {
		router.Handle(cfg.Metrics.Path, promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	rt.health.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", rt.jwks)

	authenticator := middleware.Authenticator(rt.verifier, cfg.Session.CookieName)
	loginLimiter := limiter(rt.redis, "login", middleware.KeyByIPAndPath, middleware.PerWindow(
		cfg.RateLimit.LoginRequests,
		cfg.RateLimit.LoginBurst,
		cfg.RateLimit.Window,
	))
	userLimiter := limiter(rt.redis, "user", middleware.KeyByUser, middleware.PerMinute(
		cfg.RateLimit.UserRequests,
		cfg.RateLimit.UserBurst,
	))

	router.Route("/api", func(r chi.Router) {
		rt.auth.RegisterRoutes(r, authenticator, loginLimiter)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(userLimiter)

			r.Get("/slugify", slug.Handler)
			rt.users.RegisterRoutes(r)
			rt.companies.RegisterRoutes(r)
			rt.clients.RegisterRoutes(r)
			rt.proposals.RegisterRoutes(r)
			rt.admin.RegisterRoutes(r, middleware.RequireAdmin)
		})
	})
}

func limiter(
	rdb *redis.Client,
	name string,
	key middleware.KeyFunc,
	limit redis_rate.Limit,
) func(http.Handler) http.Handler {
	return middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Name:     name,
		Limit:    limit,
		Key:      key,
		FailOpen: true,
	}).Handler
}
