// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/bythepixel/propixel/internal/core"
)

// Counter reports the number of stored rows of one entity.
type Counter func(ctx context.Context) (int64, error)

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	// Counters are keyed by the entity name reported in /stats.
	Counters map[string]Counter
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

// RegisterRoutes mounts /admin behind adminOnly. The caller is expected to
// have authenticated the request already.
func (h *Handler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/entities", h.GetEntityCounts)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	core.OK(w, SystemStatsResponse{
		Entities: h.countEntities(ctx),
		Database: DatabaseStatus{
			Healthy: ping(ctx, h.cfg.DBPing),
			Stats:   h.dbStats(),
		},
		Redis: RedisStatus{
			Healthy: ping(ctx, h.cfg.RedisPing),
			Stats:   h.redisStats(),
		},
		Runtime: readRuntimeStats(),
	})
}

func (h *Handler) GetEntityCounts(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.countEntities(r.Context()))
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.dbStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.redisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}

// countEntities reports -1 for an entity whose count failed.
func (h *Handler) countEntities(ctx context.Context) map[string]int64 {
	counts := make(map[string]int64, len(h.cfg.Counters))
	for name, count := range h.cfg.Counters {
		n, err := count(ctx)
		if err != nil {
			slog.WarnContext(ctx, "entity count failed", "entity", name, "error", err)
			n = -1
		}
		counts[name] = n
	}
	return counts
}

func ping(ctx context.Context, fn func(ctx context.Context) error) bool {
	if fn == nil {
		return true
	}
	return fn(ctx) == nil
}

func (h *Handler) dbStats() *DBPoolStats {
	if h.cfg.DBStats == nil {
		return nil
	}

	stats := h.cfg.DBStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) redisStats() *RedisPoolStats {
	if h.cfg.RedisStats == nil {
		return nil
	}

	stats := h.cfg.RedisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

func readRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}

type SystemStatsResponse struct {
	Entities map[string]int64 `json:"entities"`
	Database DatabaseStatus   `json:"database"`
	Redis    RedisStatus      `json:"redis"`
	Runtime  RuntimeStats     `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
	MaxIdleClosed      int64  `json:"maxIdleClosed"`
	MaxLifetimeClosed  int64  `json:"maxLifetimeClosed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	StaleConns uint32 `json:"staleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}
