package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const userIDKey = "auth.userID"

var errNoToken = errors.New("no token provided")

// Middleware rejects requests without a valid bearer token and stores the
// caller's id on the echo context.
func Middleware(issuer *Issuer, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "No token provided"})
			}

			userID, err := issuer.Parse(token)
			switch {
			case errors.Is(err, ErrMissingUserID):
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid token payload"})
			case err != nil:
				log.WithError(err).Warn("token verification failed")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token"})
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the id stored by Middleware.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(userIDKey).(uint)
	return id, ok && id != 0
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errNoToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", errNoToken
	}
	return token, nil
}
