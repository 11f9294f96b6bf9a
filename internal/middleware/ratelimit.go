// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/bythepixel/propixel/internal/core"
)

// KeyFunc names the bucket a request is counted against.
type KeyFunc func(*http.Request) string

type RateLimitConfig struct {
	// Name separates the buckets of limiters sharing one Redis.
	Name     string
	Limit    redis_rate.Limit
	Key      KeyFunc
	FailOpen bool
}

// RateLimiter counts requests in Redis (GCRA via redis_rate). While Redis
// is unreachable each process keeps its own token buckets, so limits stay
// roughly in force per instance.
type RateLimiter struct {
	cfg   RateLimitConfig
	redis *redis_rate.Limiter
	local *localBuckets
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.Key == nil {
		cfg.Key = KeyByIP
	}
	if cfg.Name == "" {
		cfg.Name = "global"
	}

	return &RateLimiter{
		cfg:   cfg,
		redis: redis_rate.NewLimiter(rdb),
		local: &localBuckets{buckets: map[string]*bucket{}},
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "rl:" + rl.cfg.Name + ":" + rl.cfg.Key(r)

		res, err := rl.take(r.Context(), key)
		if err != nil {
			if !rl.cfg.FailOpen {
				core.Error(w, http.StatusServiceUnavailable, "Service unavailable")
				return
			}
			slog.WarnContext(r.Context(), "rate limit check failed, allowing request",
				"limiter", rl.cfg.Name,
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		writeLimitHeaders(w.Header(), rl.cfg.Limit, res)

		if res.Allowed > 0 {
			next.ServeHTTP(w, r)
			return
		}

		retry := max(int(res.RetryAfter.Seconds()), 1)
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		core.Error(w, http.StatusTooManyRequests, core.MsgTooManyRequests)
	})
}

func (rl *RateLimiter) take(ctx context.Context, key string) (*redis_rate.Result, error) {
	res, err := rl.redis.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		return res, nil
	}

	slog.DebugContext(ctx, "redis unavailable for rate limit, counting locally",
		"limiter", rl.cfg.Name,
		"error", err,
	)
	return rl.local.take(key, rl.cfg.Limit, time.Now())
}

func writeLimitHeaders(h http.Header, limit redis_rate.Limit, res *redis_rate.Result) {
	resetIn := int(res.ResetAfter.Seconds())

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Unix()+int64(resetIn), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, resetIn))
}

// ClientIP is the address a request came from. Behind the load balancer the
// last X-Forwarded-For hop is the one the proxy appended, so it is the one
// that cannot be spoofed by the caller.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func KeyByIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// KeyByUser counts signed-in traffic per account so one busy console tab
// does not eat the budget of everyone behind the same office IP.
func KeyByUser(r *http.Request) string {
	if id := GetUserID(r.Context()); id != 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return KeyByIP(r)
}

// KeyByIPAndPath scopes a limit to one endpoint.
func KeyByIPAndPath(r *http.Request) string {
	return KeyByIP(r) + "|" + r.URL.Path
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return PerWindow(requests, burst, time.Minute)
}

func PerWindow(requests, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: requests, Burst: burst, Period: window}
}

const (
	bucketIdle = 10 * time.Minute
	sweepEvery = 5 * time.Minute
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

type localBuckets struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	swept   time.Time
}

func (l *localBuckets) take(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("rate limit %d per %s", limit.Rate, limit.Period)
	}
	perToken := limit.Period / time.Duration(limit.Rate)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > sweepEvery {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > bucketIdle {
				delete(l.buckets, k)
			}
		}
		l.swept = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Every(perToken), limit.Burst)}
		l.buckets[key] = b
	}
	b.seen = now

	res := &redis_rate.Result{
		Limit:      limit,
		RetryAfter: -1,
		ResetAfter: perToken,
	}
	if b.lim.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = perToken
	}
	res.Remaining = max(int(b.lim.TokensAt(now)), 0)

	return res, nil
}
