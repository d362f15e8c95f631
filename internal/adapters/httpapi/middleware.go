package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cropadvisor/internal/domain"
	"cropadvisor/internal/domain/entities"
	"cropadvisor/internal/ports/input"
)

// UserHeader carries the id of the user authenticated by the upstream gateway.
const UserHeader = "X-User-ID"

const userContextKey = "user"

// RequireUser resolves the caller from UserHeader and stores it on the
// context. Requests without a known user are rejected with 401.
func RequireUser(users input.UserUseCase, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(UserHeader))
			id, err := strconv.ParseInt(raw, 10, 64)
			if raw == "" || err != nil || id <= 0 {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid user"})
			}

			user, err := users.GetUser(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unknown user"})
				}
				logger.Error("Failed to resolve user", zap.Int64("user_id", id), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func currentUser(c echo.Context) (*entities.User, bool) {
	user, ok := c.Get(userContextKey).(*entities.User)
	return user, ok && user != nil
}
