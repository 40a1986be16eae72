package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"smart-tasks/internal/auth"
	"smart-tasks/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type profileResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newAuthResponse(res *service.AuthResult) authResponse {
	return authResponse{
		ID:    res.User.ID,
		Name:  res.User.Name,
		Email: res.User.Email,
		Token: res.Token,
	}
}

func register(users UserService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req registerRequest
		if err := decodeJSON(c, &req); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid request body")
		}

		res, err := users.Register(c.Request().Context(), req.Name, req.Email, req.Password)
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return respondError(c, http.StatusBadRequest, "Name, email and password are required")
		case errors.Is(err, service.ErrUserExists):
			return respondError(c, http.StatusBadRequest, "User already exists")
		case err != nil:
			log.WithError(err).Error("register user")
			return respondError(c, http.StatusInternalServerError, "Server error registering user")
		}

		log.WithField("user_id", res.User.ID).Info("user registered")
		return c.JSON(http.StatusCreated, newAuthResponse(res))
	}
}

func login(users UserService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginRequest
		if err := decodeJSON(c, &req); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid request body")
		}

		res, err := users.Login(c.Request().Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return respondError(c, http.StatusBadRequest, "Invalid credentials")
		case errors.Is(err, service.ErrAccountDisabled):
			return respondError(c, http.StatusForbidden, "Account is disabled")
		case err != nil:
			log.WithError(err).Error("login user")
			return respondError(c, http.StatusInternalServerError, "Server error logging in")
		}

		return c.JSON(http.StatusOK, newAuthResponse(res))
	}
}

func profile(users UserService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := auth.UserID(c)
		if !ok {
			return respondError(c, http.StatusUnauthorized, "Unauthorized: no user ID")
		}

		user, err := users.Profile(c.Request().Context(), userID)
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return respondError(c, http.StatusNotFound, "User not found")
		case err != nil:
			log.WithError(err).WithField("user_id", userID).Error("fetch profile")
			return respondError(c, http.StatusInternalServerError, "Server error fetching profile")
		}

		return c.JSON(http.StatusOK, profileResponse{ID: user.ID, Name: user.Name, Email: user.Email})
	}
}
