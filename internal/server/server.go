// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/health"
)

const readHeaderTimeout = 5 * time.Second

type Config struct {
	ServerConfig  config.ServerConfig
	HealthHandler *health.Handler
	Logger        *slog.Logger
	// ServiceName names the otelhttp server span operation.
	ServiceName string
}

type Server struct {
	router  *chi.Mux
	http    *http.Server
	health  *health.Handler
	logger  *slog.Logger
	address string
}

// New builds a server whose router recovers panics. Callers add middleware
// and routes through Router before calling Start. Readiness stays failed
// until the listener is accepting.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.ServiceName
	if name == "" {
		name = "propixel"
	}

	router := chi.NewRouter()
	router.Use(chimw.Recoverer)

	s := &Server{
		router:  router,
		health:  cfg.HealthHandler,
		logger:  logger,
		address: cfg.ServerConfig.Address(),
	}

	if s.health != nil {
		s.health.SetReady(false)
	}

	s.http = &http.Server{
		Addr:              s.address,
		Handler:           otelhttp.NewHandler(router, name),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ServerConfig.ReadTimeout,
		WriteTimeout:      cfg.ServerConfig.WriteTimeout,
		IdleTimeout:       cfg.ServerConfig.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return s
}

func (s *Server) Router() chi.Router {
	return s.router
}

// Handler is the fully wrapped handler the listener serves.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start listens until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}

	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server listening", "address", ln.Addr().String())
	if s.health != nil {
		s.health.SetReady(true)
	}

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}

	return nil
}

// Shutdown fails readiness first, waits drainDelay so load balancers stop
// routing here, then drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context, drainDelay time.Duration) error {
	if s.health != nil {
		s.health.SetShutdown(true)
	}

	if drainDelay > 0 {
		s.logger.Info("draining before shutdown", "delay", drainDelay)

		timer := time.NewTimer(drainDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
