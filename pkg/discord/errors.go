package discord

import (
	"errors"

	"cropadvisor/internal/domain"
)

// ErrorMessageKey maps an error returned by the prediction use case to the
// catalog key shown to the Discord user.
func ErrorMessageKey(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUserNotFound):
		return "error.account_not_linked"
	case errors.Is(err, domain.ErrFarmNotFound), errors.Is(err, domain.ErrAccessDenied):
		return "error.farm_not_found"
	case errors.Is(err, domain.ErrInvalidCrop):
		return "error.invalid_crop"
	default:
		return "error.generic"
	}
}
