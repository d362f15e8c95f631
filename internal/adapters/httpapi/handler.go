// Package httpapi exposes the prediction use case over HTTP.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cropadvisor/internal/domain"
	"cropadvisor/internal/ports/input"
)

type errorResponse struct {
	Error string `json:"error"`
}

type predictRequest struct {
	FarmID int64  `json:"farm_id"`
	Crop   string `json:"crop"`
}

type Handler struct {
	predictions input.PredictionUseCase
	logger      *zap.Logger
}

func NewHandler(predictions input.PredictionUseCase, logger *zap.Logger) *Handler {
	return &Handler{
		predictions: predictions,
		logger:      logger.Named("http"),
	}
}

// Predict handles POST /api/v1/predict.
func (h *Handler) Predict(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid user"})
	}

	var req predictRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	result, err := h.predictions.Predict(c.Request().Context(), user, req.FarmID, req.Crop)
	if err != nil {
		return h.fail(c, "predict", err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListForFarm handles GET /api/v1/predict/farm/:farm_id.
func (h *Handler) ListForFarm(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid user"})
	}
	farmID, err := strconv.ParseInt(c.Param("farm_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid farm id"})
	}

	records, err := h.predictions.ListForFarm(c.Request().Context(), user, farmID)
	if err != nil {
		return h.fail(c, "list predictions", err)
	}
	return c.JSON(http.StatusOK, records)
}

// GetPrediction handles GET /api/v1/predict/:id.
func (h *Handler) GetPrediction(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid user"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid prediction id"})
	}

	record, err := h.predictions.GetPrediction(c.Request().Context(), user, id)
	if err != nil {
		return h.fail(c, "get prediction", err)
	}
	return c.JSON(http.StatusOK, record)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) fail(c echo.Context, op string, err error) error {
	status := domain.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		return c.JSON(status, errorResponse{Error: "internal error"})
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}
