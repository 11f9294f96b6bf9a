// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bythepixel/propixel/internal/middleware"
	"github.com/bythepixel/propixel/internal/testutil"
)

func fixed(n int64) Counter {
	return func(context.Context) (int64, error) { return n, nil }
}

func newRouter(cfg HandlerConfig) http.Handler {
	h := NewHandler(cfg)
	return testutil.APIRouter(func(r chi.Router) {
		h.RegisterRoutes(r, middleware.RequireAdmin)
	})
}

func TestStatsRequireAdmin(t *testing.T) {
	router := newRouter(HandlerConfig{})

	rec := testutil.Do(t, router, http.MethodGet, "/api/admin/stats", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testutil.Do(t, router, http.MethodGet, "/api/admin/stats", "", testutil.StaffToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testutil.Do(t, router, http.MethodGet, "/api/admin/stats", "", testutil.AdminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSystemStats(t *testing.T) {
	router := newRouter(HandlerConfig{
		DBStats: func() sql.DBStats {
			return sql.DBStats{MaxOpenConnections: 10, InUse: 2}
		},
		DBPing:    func(context.Context) error { return nil },
		RedisPing: func(context.Context) error { return errors.New("down") },
		Counters: map[string]Counter{
			"users":     fixed(3),
			"companies": fixed(2),
			"proposals": func(context.Context) (int64, error) { return 0, errors.New("timeout") },
		},
	})

	rec := testutil.Do(t, router, http.MethodGet, "/api/admin/stats", "", testutil.AdminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := testutil.Decode[SystemStatsResponse](t, rec)
	assert.Equal(t, map[string]int64{"users": 3, "companies": 2, "proposals": -1}, stats.Entities)
	assert.True(t, stats.Database.Healthy)
	require.NotNil(t, stats.Database.Stats)
	assert.Equal(t, 10, stats.Database.Stats.MaxOpenConnections)
	assert.False(t, stats.Redis.Healthy)
	assert.Nil(t, stats.Redis.Stats)
	assert.NotEmpty(t, stats.Runtime.GoVersion)
}

func TestEntityCounts(t *testing.T) {
	router := newRouter(HandlerConfig{
		Counters: map[string]Counter{"clients": fixed(7)},
	})

	rec := testutil.Do(t, router, http.MethodGet, "/api/admin/stats/entities", "", testutil.AdminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clients":7}`, rec.Body.String())
}
