// Package httpapi exposes the task API over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"smart-tasks/internal/auth"
	"smart-tasks/internal/model"
	"smart-tasks/internal/service"
)

// TaskService is the task business logic used by the handlers.
type TaskService interface {
	CreateTask(ctx context.Context, userID uint, input service.TaskInput) (*model.Task, error)
	ListTasks(ctx context.Context, userID uint) ([]model.Task, error)
	GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uint, patch service.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uint) error
	Stats(ctx context.Context, userID uint) (model.TaskStats, error)
}

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	Profile(ctx context.Context, userID uint) (*model.User, error)
}

type ReportService interface {
	Dashboard(ctx context.Context) (service.Dashboard, error)
}

// Deps bundles everything the router needs.
type Deps struct {
	Tasks   TaskService
	Users   UserService
	Reports ReportService
	Issuer  *auth.Issuer
	Ping    func(ctx context.Context) error
	Log     *logrus.Logger

	CORSOrigins []string
}

const maxBodySize = "1M"

// New builds the echo instance with middleware and all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))
	e.Use(middleware.BodyLimit(maxBodySize))
	if len(d.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	Register(e, d)
	return e
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	requireAuth := auth.Middleware(d.Issuer, d.Log)

	e.GET("/", root)
	e.GET("/healthz", healthz(d.Ping))

	users := e.Group("/api/users")
	users.POST("/register", register(d.Users, d.Log))
	users.POST("/login", login(d.Users, d.Log))
	users.GET("/profile", profile(d.Users, d.Log), requireAuth)

	tasks := e.Group("/api/tasks", requireAuth)
	tasks.GET("", listTasks(d.Tasks, d.Log))
	tasks.POST("", createTask(d.Tasks, d.Log))
	tasks.GET("/stats", taskStats(d.Tasks, d.Log))
	tasks.GET("/:id", getTask(d.Tasks, d.Log))
	tasks.PUT("/:id", updateTask(d.Tasks, d.Log))
	tasks.DELETE("/:id", deleteTask(d.Tasks, d.Log))

	e.GET("/api/dashboard", dashboard(d.Reports, d.Log), requireAuth)
}

func root(c echo.Context) error {
	return c.String(http.StatusOK, "API is running...")
}

func healthz(ping func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ping != nil {
			if err := ping(c.Request().Context()); err != nil {
				return respondError(c, http.StatusServiceUnavailable, "database unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	}
}

func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	})
}
