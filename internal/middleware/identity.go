package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// UserResolver decides which user a request acts as.
type UserResolver interface {
	ResolveUser(c echo.Context) (uint, error)
}

// FixedUser resolves every request to the same user id.
type FixedUser uint

func (f FixedUser) ResolveUser(echo.Context) (uint, error) {
	return uint(f), nil
}

func Identity(resolver UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := resolver.ResolveUser(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized").SetInternal(err)
			}
			if userID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(string(UserIDKey), userID)
			return next(c)
		}
	}
}

func GetUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get(string(UserIDKey)).(uint)
	return userID, ok
}
