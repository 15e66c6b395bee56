package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimiter limits each client IP to 10 requests per minute on the routes
// it wraps.
func RateLimiter() echo.MiddlewareFunc {
	return RateLimiterPerMinute(10)
}

// RateLimiterPerMinute allows n requests per minute per IP, with a burst of n.
func RateLimiterPerMinute(n int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		// In-memory counts suit a single instance.
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(n) / 60),
			Burst:     n,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "ip", identifier)
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
