package localsd

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mudler/LocalSD/core/application"
	"github.com/mudler/LocalSD/core/backend"
	"github.com/mudler/LocalSD/core/schema"
	"github.com/rs/zerolog/log"
)

// GenerateEndpoint runs one synchronous text-to-image call and returns the
// result as a base64 PNG data URL.
//
//	curl http://localhost:8000/generate \
//	  -H "Content-Type: application/json" \
//	  -d '{"prompt": "a red circle", "seed": 42}'
//
// @Summary Generate an image from a text prompt.
// @Param request body schema.GenerationRequest true "query params"
// @Success 200 {object} schema.GenerationResponse "Response"
// @Router /generate [post]
func GenerateEndpoint(app *application.Application) echo.HandlerFunc {
	return func(c echo.Context) error {
		input := new(schema.GenerationRequest)

		if err := c.Bind(input); err != nil {
			log.Debug().Err(err).Msg("Error during body binding")
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		input.SetDefaults()

		if err := input.Validate(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		resp, err := backend.ImageGeneration(c.Request().Context(), app.ModelLoader(), input)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, resp)
	}
}
