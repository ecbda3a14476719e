package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"gdpdash/internal/app"
	"gdpdash/internal/logger"
)

// NewServer builds the echo instance with middleware and routes.
func NewServer(state *app.State, log *logger.Logger) *echo.Echo {
	if log == nil {
		log = logger.Discard()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)

			return nil
		},
	}))

	NewHandler(state, log).RegisterRoutes(e)

	return e
}
