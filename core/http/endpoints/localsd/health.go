package localsd

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mudler/LocalSD/core/application"
	"github.com/mudler/LocalSD/core/schema"
	"github.com/mudler/LocalSD/pkg/stablediffusion"
)

// HealthEndpoint reports load status, selected device and model identifier.
// It never fails, regardless of model state.
// @Summary Show the current model load status.
// @Success 200 {object} schema.HealthResponse "Response"
// @Router /health [get]
func HealthEndpoint(app *application.Application) echo.HandlerFunc {
	return func(c echo.Context) error {
		ml := app.ModelLoader()

		device := ml.Device()
		if device == "" {
			device = stablediffusion.DeviceCPU
		}

		return c.JSON(http.StatusOK, schema.HealthResponse{
			Status: "ok",
			Model:  app.ApplicationConfig().Model,
			Device: device,
			Loaded: ml.Loaded(),
		})
	}
}
