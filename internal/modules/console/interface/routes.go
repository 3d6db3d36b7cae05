package transport

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nicovaras/clare/internal/modules/console/infrastructure"
)

// NewServer builds the echo instance with middleware, renderer and every console route.
func NewServer(handler *ConsoleHandler, hub *infrastructure.Hub) (*echo.Echo, error) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.HTTPErrorHandler(e.DefaultHTTPErrorHandler)

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency.Round(time.Microsecond)),
				slog.String("reqID", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
			}
			slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "http request", attrs...)
			return nil
		},
	}))

	e.GET("/", handler.Page)
	e.GET("/healthz", handler.Health)
	e.POST("/panels/:panel", handler.SubmitForm)
	e.POST("/api/v1/panels/:panel", handler.SubmitJSON)
	if hub != nil {
		e.GET("/ws/activity", NewActivityWebsocketHandler(hub))
	}
	return e, nil
}
