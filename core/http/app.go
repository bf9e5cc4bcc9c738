package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mudler/LocalSD/core/application"
	"github.com/mudler/LocalSD/core/backend"
	"github.com/mudler/LocalSD/core/http/routes"
	"github.com/mudler/LocalSD/core/schema"
	"github.com/mudler/LocalSD/pkg/stablediffusion"

	"github.com/rs/zerolog/log"
)

func API(application *application.Application) (*echo.Echo, error) {
	e := echo.New()

	// Hide banner
	e.HideBanner = true

	// Set error handler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := err.Error()
		errType := "server_error"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
			if code < http.StatusInternalServerError {
				errType = "invalid_request_error"
			}
		case errors.Is(err, backend.ErrModelNotLoaded):
			message = "Model not loaded"
		case errors.Is(err, stablediffusion.ErrOutOfMemory):
			code = http.StatusInsufficientStorage
			message = "Accelerator out of memory. Try smaller width/height (512) or fewer steps."
			errType = "insufficient_storage"
		}

		if jsonErr := c.JSON(code, schema.ErrorResponse{
			Error: &schema.APIError{Message: message, Code: code, Type: errType},
		}); jsonErr != nil {
			log.Error().Err(jsonErr).Msg("Error sending error response")
		}
	}

	// Custom logger middleware using zerolog, with a per-request id
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			id := uuid.New().String()
			res.Header().Set(echo.HeaderXRequestID, id)
			err := next(c)
			log.Info().
				Str("id", id).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Msg("HTTP request")
			return err
		}
	})

	// Recover middleware
	if !application.ApplicationConfig().Debug {
		e.Use(middleware.Recover())
	}

	// Health checks should always be registered first
	routes.HealthRoutes(e, application)

	// CORS middleware
	if application.ApplicationConfig().CORS {
		corsConfig := middleware.CORSConfig{
			AllowCredentials: true,
			AllowHeaders:     []string{"*"},
		}
		if application.ApplicationConfig().CORSAllowOrigins != "" {
			corsConfig.AllowOrigins = strings.Split(application.ApplicationConfig().CORSAllowOrigins, ",")
		}
		e.Use(middleware.CORSWithConfig(corsConfig))
	}

	routes.RegisterLocalSDRoutes(e, application)

	e.Server.RegisterOnShutdown(func() {
		log.Info().Msg("LocalSD API server shutting down")
	})

	return e, nil
}
