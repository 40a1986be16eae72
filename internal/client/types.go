package client

import "time"

// Task mirrors the server's task JSON.
type Task struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask is the body of a create request. Empty fields take server defaults.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// TaskPatch is a partial update; nil fields are not sent. DueDate is a
// normalized RFC 3339 string.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// Session is returned by Register and Login.
type Session struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Credentials authenticate a single call.
type Credentials struct {
	Token string
}

type Profile struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Stats struct {
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
}

type Dashboard struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
}
