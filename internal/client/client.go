// Package client talks to the task API. Every authenticated call takes its
// credentials explicitly; the client itself holds no token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

var ErrNoCredentials = errors.New("not logged in")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/users/register", nil, body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Profile(ctx context.Context, creds Credentials) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/users/profile", &creds, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListTasks(ctx context.Context, creds Credentials) ([]Task, error) {
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/tasks", &creds, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, creds Credentials, id uint) (*Task, error) {
	var resp struct {
		Task *Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodGet, taskPath(id), &creds, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) CreateTask(ctx context.Context, creds Credentials, task NewTask) (*Task, error) {
	var resp struct {
		Task *Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", &creds, task, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, creds Credentials, id uint, patch TaskPatch) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), &creds, patch, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, creds Credentials, id uint) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), &creds, nil, nil)
}

func (c *Client) TaskStats(ctx context.Context, creds Credentials) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, "/tasks/stats", &creds, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Dashboard(ctx context.Context, creds Credentials) (*Dashboard, error) {
	var d Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", &creds, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func taskPath(id uint) string {
	return "/tasks/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) do(ctx context.Context, method, path string, creds *Credentials, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		if creds.Token == "" {
			return ErrNoCredentials
		}
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
