package discord

import (
	"go.uber.org/zap"

	"cropadvisor/internal/ports/input"
	"cropadvisor/internal/ports/output"
)

// Handler handles Discord interactions using use cases.
type Handler struct {
	predictions input.PredictionUseCase
	users       input.UserUseCase
	translator  output.T
	logger      *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	predictions input.PredictionUseCase,
	users input.UserUseCase,
	translator output.T,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		predictions: predictions,
		users:       users,
		translator:  translator,
		logger:      logger,
	}
}
