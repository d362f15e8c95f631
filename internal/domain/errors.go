package domain

import (
	"errors"
	"net/http"
)

// Domain errors.
var (
	ErrFarmNotFound       = errors.New("farm not found")
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidCrop        = errors.New("crop is required")
)

// HTTPStatus maps a domain error to the status code reported to API clients.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrFarmNotFound), errors.Is(err, ErrPredictionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidCrop):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
