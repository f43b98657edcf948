package server

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/time/rate"
)

const (
	// HeaderUserEmail carries the identity set by the auth proxy.
	HeaderUserEmail = "X-User-Email"

	userEmailKey = "userEmail"
)

// requestID tags every request with an id, reusing an incoming one.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = shortuuid.New()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// requestLogger logs one line per request after it completes.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(req.Context(), level, "http request",
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("method", req.Method),
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.Duration("latency", time.Since(start)),
				slog.String("user", req.Header.Get(HeaderUserEmail)),
			)
			return nil
		}
	}
}

// requireUser rejects requests without an identity header.
func requireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserEmail)))
			if email == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserEmail+" header")
			}
			c.Set(userEmailKey, email)
			return next(c)
		}
	}
}

func userEmail(c echo.Context) string {
	email, _ := c.Get(userEmailKey).(string)
	return email
}

// limiterIdleTTL is the minimum time a user's bucket is kept after its
// last request.
const limiterIdleTTL = 10 * time.Minute

// RateLimiter hands out one token bucket per user. Buckets idle longer
// than the TTL are swept on access; the TTL is never shorter than a full
// refill, so a dropped bucket is recreated in the state it would have had.
type RateLimiter struct {
	mu        sync.Mutex
	limits    map[string]*userLimit
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type userLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// user with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	burst = max(burst, 1)
	ttl := limiterIdleTTL
	if rps > 0 {
		ttl = max(ttl, time.Duration(float64(burst)/rps*float64(time.Second)))
	}
	return &RateLimiter{
		limits: make(map[string]*userLimit),
		rps:    rate.Limit(rps),
		burst:  burst,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.ttl {
		for k, ul := range rl.limits {
			if now.Sub(ul.lastSeen) >= rl.ttl {
				delete(rl.limits, k)
			}
		}
		rl.lastSweep = now
	}

	ul, ok := rl.limits[key]
	if !ok {
		ul = &userLimit{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limits[key] = ul
	}
	ul.lastSeen = now
	return ul.limiter
}

// Allow reports whether key may make a request now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).AllowN(rl.now(), 1)
}

// tracked reports how many users currently hold a bucket.
func (rl *RateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limits)
}

// limitAI applies the per-user limiter. It runs after requireUser.
func limitAI(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(userEmail(c)) {
				return errRateLimited
			}
			return next(c)
		}
	}
}
