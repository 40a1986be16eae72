package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"smart-tasks/internal/auth"
	"smart-tasks/internal/dates"
	"smart-tasks/internal/model"
	"smart-tasks/internal/service"
)

type tasksResponse struct {
	Tasks []model.Task `json:"tasks"`
}

type taskResponse struct {
	Task *model.Task `json:"task"`
}

func listTasks(tasks TaskService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := auth.UserID(c)
		if !ok {
			return respondError(c, http.StatusUnauthorized, "Unauthorized: no user ID")
		}

		list, err := tasks.ListTasks(c.Request().Context(), userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("fetch tasks")
			return respondError(c, http.StatusInternalServerError, "Server error fetching tasks")
		}
		if list == nil {
			list = []model.Task{}
		}
		return c.JSON(http.StatusOK, tasksResponse{Tasks: list})
	}
}

func createTask(tasks TaskService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := auth.UserID(c)
		if !ok {
			return respondError(c, http.StatusUnauthorized, "Unauthorized: no user ID")
		}

		var req createTaskRequest
		if err := decodeJSON(c, &req); err != nil {
			return badBody(c, err)
		}

		task, err := tasks.CreateTask(c.Request().Context(), userID, req.input())
		if err != nil {
			if status, msg, ok := validationError(err); ok {
				return respondError(c, status, msg)
			}
			log.WithError(err).WithField("user_id", userID).Error("create task")
			return respondError(c, http.StatusInternalServerError, "Server error creating task")
		}

		return c.JSON(http.StatusCreated, taskResponse{Task: task})
	}
}

func getTask(tasks TaskService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := auth.UserID(c)
		if !ok {
			return respondError(c, http.StatusUnauthorized, "Unauthorized: no user ID")
		}
		taskID, ok := taskIDParam(c)
		if !ok {
			return respondError(c, http.StatusNotFound, "Task not found")
		}

		task, err := tasks.GetTask(c.Request().Context(), userID, taskID)
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			return respondError(c, http.StatusNotFound, "Task not found")
		case err != nil:
			log.WithError(err).WithField("task_id", taskID).Error("fetch task")
			return respondError(c, http.StatusInternalServerError, "Server error fetching task")
		}
		return c.JSON(http.StatusOK, taskResponse{Task: task})
	}
}

func updateTask(tasks TaskService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := auth.UserID(c)
		if !ok {
			return respondError(c, http.StatusUnauthorized, "Unauthorized: no user ID")
		}

		var req updateTaskRequest
		if err := decodeJSON(c, &req); err != nil {
			return badBody(c, err)
		}

		taskID, ok := taskIDParam(c)
		if !ok {
			return respondError(c, http.StatusNotFound, "Task not found")
		}

		task, err := tasks.UpdateTask(c.Request().Context(), userID, taskID, req.patch())
		if err != nil {
			if status, msg, ok := validationError(err); ok {
				return respondError(c, status, msg)
			}
			if errors.Is(err, service.ErrTaskNotFound) {
				return respondError(c, http.StatusNotFound, "Task not found")
			}
			log.WithError(err).WithField("task_id", taskID).Error("update task")
			return respondError(c, http.StatusInternalServerError, "Failed to update task")
		}

		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(tasks TaskService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := auth.UserID(c)
		if !ok {
			return respondError(c, http.StatusUnauthorized, "Unauthorized: no user ID")
		}
		taskID, ok := taskIDParam(c)
		if !ok {
			return respondError(c, http.StatusNotFound, "Task not found or unauthorized")
		}

		err := tasks.DeleteTask(c.Request().Context(), userID, taskID)
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			return respondError(c, http.StatusNotFound, "Task not found or unauthorized")
		case err != nil:
			log.WithError(err).WithField("task_id", taskID).Error("delete task")
			return respondError(c, http.StatusInternalServerError, "Server error deleting task")
		}

		return c.JSON(http.StatusOK, messageResponse{Message: "Task deleted successfully"})
	}
}

func taskStats(tasks TaskService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := auth.UserID(c)
		if !ok {
			return respondError(c, http.StatusUnauthorized, "Unauthorized: no user ID")
		}

		stats, err := tasks.Stats(c.Request().Context(), userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("fetch task stats")
			return respondError(c, http.StatusInternalServerError, "Server error fetching stats")
		}
		return c.JSON(http.StatusOK, stats)
	}
}

func dashboard(reports ReportService, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		d, err := reports.Dashboard(c.Request().Context())
		if err != nil {
			log.WithError(err).Error("fetch dashboard")
			return respondError(c, http.StatusInternalServerError, "Failed to fetch dashboard data")
		}
		return c.JSON(http.StatusOK, d)
	}
}

func taskIDParam(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func validationError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidPriority):
		return http.StatusBadRequest, "Invalid priority value", true
	case errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest, "Invalid status value", true
	case errors.Is(err, service.ErrEmptyTitle):
		return http.StatusBadRequest, "Title cannot be empty", true
	}
	return 0, "", false
}

func badBody(c echo.Context, err error) error {
	if errors.Is(err, dates.ErrInvalidDate) {
		return respondError(c, http.StatusBadRequest, "Invalid due date")
	}
	return respondError(c, http.StatusBadRequest, "Invalid request body")
}
