package httpin

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"return_app/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func LoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					zap.String("request_id", requestID(c)),
					zap.Any("error", rec),
					zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "internal error",
					"requestId": requestID(c),
				})
			}
		}()
		c.Next()
	}
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{rate: rate.Limit(rps), burst: burst}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	if l, ok := rl.limiters.Load(ip); ok {
		return l.(*rate.Limiter)
	}
	l, _ := rl.limiters.LoadOrStore(ip, rate.NewLimiter(rl.rate, rl.burst))
	return l.(*rate.Limiter)
}

// Middleware rejects requests over the limit with 429. A non-positive rate
// disables limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	if rl.rate <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// CustomerTokenMiddleware forwards the shopper's auth token, taken from the
// named cookie or a bearer Authorization header, to outbound calls.
func CustomerTokenMiddleware(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if cookieName != "" {
			token, _ = c.Cookie(cookieName)
		}
		if h := c.GetHeader("Authorization"); token == "" && strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
		if token != "" {
			c.Request = c.Request.WithContext(domain.WithCustomerToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

// AdminAuth guards the back office with HTTP basic auth.
type AdminAuth struct {
	user     string
	password string
}

func NewAdminAuth(user, password string) AdminAuth {
	return AdminAuth{user: user, password: password}
}

// Middleware asks for credentials with 401. Without a configured password
// every back-office request gets 403.
func (a AdminAuth) Middleware() gin.HandlerFunc {
	if a.password == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access disabled"})
		}
	}
	return gin.BasicAuthForRealm(gin.Accounts{a.user: a.password}, "returns admin")
}

// Allowed reports whether r carries the admin credentials.
func (a AdminAuth) Allowed(r *http.Request) bool {
	if a.password == "" {
		return false
	}
	user, password, ok := r.BasicAuth()
	return ok &&
		subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1 &&
		subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
}
