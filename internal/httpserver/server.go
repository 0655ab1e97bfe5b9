package httpserver

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	loggingmw "github.com/Skotchmaster/marketplace/pkg/middleware/logging"
	"github.com/Skotchmaster/marketplace/pkg/validate"
)

type ServerConfig struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	CORSOrigins    []string
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64
}

// New builds the echo instance with the middleware stack and all routes.
func New(cfg ServerConfig, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = validate.New()

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Secure())
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	if cfg.Logger != nil {
		e.Use(loggingmw.RequestLogger(cfg.Logger))
	}
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeout(cfg.RequestTimeout))
	}
	if cfg.RateLimit > 0 {
		store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimit),
			Burst:     max(1, int(cfg.RateLimit*2)),
			ExpiresIn: 3 * time.Minute,
		})
		e.Use(middleware.RateLimiter(store))
	}

	Register(e, d)
	return e
}
