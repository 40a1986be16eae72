package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"smart-tasks/internal/auth"
	"smart-tasks/internal/config"
	"smart-tasks/internal/repository"
	"smart-tasks/internal/service"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestServer wires the real services over an in-memory sqlite database.
func newTestServer(t *testing.T) (*echo.Echo, *repository.UserRepository) {
	t.Helper()
	log := discardLogger()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    "file:" + name + "?mode=memory&cache=shared",
	}, log)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	issuer := auth.NewIssuer("test-secret", time.Hour)

	e := New(Deps{
		Tasks:   service.NewTaskService(tasks, nil),
		Users:   service.NewUserService(users, issuer),
		Reports: service.NewReportService(users, tasks),
		Issuer:  issuer,
		Log:     log,
	})
	return e, users
}

func doRequest(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var body messageResponse
	decodeBody(t, rec, &body)
	if body.Message != message {
		t.Fatalf("expected message %q, got %q", message, body.Message)
	}
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, e *echo.Echo, email string) authResponse {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/api/users/register", "", registerRequest{
		Name: "User", Email: email, Password: "password",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	var res authResponse
	decodeBody(t, rec, &res)
	return res
}

type taskJSON struct {
	ID       uint       `json:"id"`
	UserID   uint       `json:"userId"`
	Title    string     `json:"title"`
	Category string     `json:"category"`
	Priority string     `json:"priority"`
	Status   string     `json:"status"`
	DueDate  *time.Time `json:"dueDate"`
}

func createTestTask(t *testing.T, e *echo.Echo, token string, body map[string]any) taskJSON {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/api/tasks", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: %d %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Task taskJSON `json:"task"`
	}
	decodeBody(t, rec, &res)
	return res.Task
}
