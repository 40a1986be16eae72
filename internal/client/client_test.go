package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSendsCredentials(t *testing.T) {
	var gotAuth, gotMethod, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotPath = r.URL.Path
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":5,"title":"new","status":"completed","priority":"low"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", WithHTTPClient(srv.Client()))
	status := "completed"
	task, err := c.UpdateTask(context.Background(), Credentials{Token: "abc"}, 5, TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if gotAuth != "Bearer abc" || gotMethod != http.MethodPut || gotPath != "/api/tasks/5" {
		t.Fatalf("unexpected request %s %s auth=%q", gotMethod, gotPath, gotAuth)
	}
	if len(gotBody) != 1 || gotBody["status"] != "completed" {
		t.Fatalf("patch should only carry set fields: %v", gotBody)
	}
	if task.ID != 5 || task.Status != "completed" {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestClientRequiresCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.ListTasks(context.Background(), Credentials{}); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	if called {
		t.Fatalf("request sent without credentials")
	}
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid priority value"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	p := "urgent"
	_, err := c.UpdateTask(context.Background(), Credentials{Token: "t"}, 1, TaskPatch{Priority: &p})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Invalid priority value" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if !IsStatus(err, http.StatusBadRequest) || IsStatus(err, http.StatusNotFound) {
		t.Fatalf("IsStatus mismatch for %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid priority value") {
		t.Fatalf("error text %q", err.Error())
	}
}

func TestClientEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must not send a token")
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "Ada", "email": body["email"], "token": "tok"})
	})
	mux.HandleFunc("/api/tasks", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"tasks":[{"id":1,"title":"a","dueDate":"2026-01-02T00:00:00Z"},{"id":2,"title":"b","dueDate":null}]}`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"task":{"id":3,"title":"c"}}`))
		}
	})
	mux.HandleFunc("/api/tasks/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalTasks":2,"completedTasks":1}`))
	})
	mux.HandleFunc("/api/tasks/9", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Task deleted successfully"}`))
	})
	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalUsers":3,"totalTasks":2,"completedTasks":1,"pendingTasks":1}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL + "/api")

	s, err := c.Login(ctx, "ada@example.com", "pw")
	if err != nil || s.Token != "tok" || s.Email != "ada@example.com" {
		t.Fatalf("Login = %+v, %v", s, err)
	}
	creds := Credentials{Token: s.Token}

	tasks, err := c.ListTasks(ctx, creds)
	if err != nil || len(tasks) != 2 {
		t.Fatalf("ListTasks = %+v, %v", tasks, err)
	}
	if tasks[0].DueDate == nil || tasks[1].DueDate != nil {
		t.Fatalf("due dates not decoded: %+v", tasks)
	}

	created, err := c.CreateTask(ctx, creds, NewTask{Title: "c"})
	if err != nil || created.ID != 3 {
		t.Fatalf("CreateTask = %+v, %v", created, err)
	}

	stats, err := c.TaskStats(ctx, creds)
	if err != nil || stats.TotalTasks != 2 || stats.CompletedTasks != 1 {
		t.Fatalf("TaskStats = %+v, %v", stats, err)
	}

	if err := c.DeleteTask(ctx, creds, 9); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	d, err := c.Dashboard(ctx, creds)
	if err != nil || d.TotalUsers != 3 {
		t.Fatalf("Dashboard = %+v, %v", d, err)
	}
}
