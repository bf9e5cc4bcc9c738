package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mudler/LocalSD/core/application"
)

func HealthRoutes(e *echo.Echo, app *application.Application) {
	// Service health checks
	ok := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	e.GET("/healthz", ok)
	e.GET("/readyz", func(c echo.Context) error {
		if !app.ModelLoader().Loaded() {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
}
