package httpin

import (
	"context"
	"net/http"

	"return_app/internal/ports/inbound"
	"return_app/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	// TokenCookie names the cookie holding the shopper's auth token.
	TokenCookie    string
	AdminPageSize  int
	AdminUser      string
	AdminPassword  string
	RateLimitRPS   float64
	RateLimitBurst int
	// Health reports backing store readiness; nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig, browser inbound.OrderBrowser, returns inbound.ReturnUseCase, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestIDMiddleware(),
		LoggingMiddleware(log.Named("access")),
		RecoveryMiddleware(log),
		NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware(),
		CustomerTokenMiddleware(cfg.TokenCookie),
	)

	p := newPages(log)
	admin := NewAdminAuth(cfg.AdminUser, cfg.AdminPassword)
	newHandlers(returns, cfg.Health, p, admin, cfg.AdminPageSize).Register(r)
	newUI(browser, returns, p).Register(r)

	static := http.FS(web.MustFS())
	r.GET("/static/style.css", func(c *gin.Context) { c.FileFromFS("style.css", static) })
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/store/orders") })
	r.NoRoute(func(c *gin.Context) { c.String(http.StatusNotFound, "not found") })

	return r
}
