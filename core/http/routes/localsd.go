package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/mudler/LocalSD/core/application"
	"github.com/mudler/LocalSD/core/http/endpoints/localsd"
)

func RegisterLocalSDRoutes(e *echo.Echo, app *application.Application) {
	e.GET("/health", localsd.HealthEndpoint(app))
	e.POST("/generate", localsd.GenerateEndpoint(app))
}
