package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"cropadvisor/internal/ports/input"
)

// NewRouter wires every route on a fresh echo instance. metricsHandler may be
// nil, in which case /metrics is not served.
func NewRouter(h *Handler, users input.UserUseCase, metricsHandler http.Handler, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/health", h.Health)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	api := e.Group("/api/v1", RequireUser(users, logger.Named("http")))
	api.POST("/predict", h.Predict)
	api.GET("/predict/farm/:farm_id", h.ListForFarm)
	api.GET("/predict/:id", h.GetPrediction)

	return e
}
