package middleware

import (
	"net/http"
	"time"

	"ridelink/config"
	"ridelink/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Fallback limits applied when the auth config leaves them unset.
const (
	defaultLoginRatePerSecond = 1.0
	defaultLoginBurst         = 5
)

// NewLoginRateLimiter builds a per-client-IP rate limiter for the credential
// endpoints, slowing down password guessing.
func NewLoginRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	perSecond := defaultLoginRatePerSecond
	burst := defaultLoginBurst
	if cfg.Auth != nil {
		if cfg.Auth.LoginRatePerSecond > 0 {
			perSecond = cfg.Auth.LoginRatePerSecond
		}
		if cfg.Auth.LoginBurst > 0 {
			burst = cfg.Auth.LoginBurst
		}
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return response.Error(c, http.StatusTooManyRequests,
				"RATE_LIMITED", "Too many requests", "could not identify the caller")
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return response.Error(c, http.StatusTooManyRequests,
				"RATE_LIMITED", "Too many requests", "retry later")
		},
	})
}
