package table

import (
	"context"
	"errors"
	"strings"
	"sync"

	"smart-tasks/internal/client"
	"smart-tasks/internal/dates"
)

var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrInvalidDueDate = errors.New("invalid due date")
	ErrSaveInProgress = errors.New("save already in progress for this task")
)

const (
	defaultPriority = "medium"
	defaultStatus   = "pending"
	statusCompleted = "completed"
)

// EditForm holds the inline edit fields as typed by the user.
type EditForm struct {
	Title    string
	Category string
	DueDate  string
	Priority string
	Status   string
}

// FormFromTask pre-fills the form from an existing task.
func FormFromTask(t client.Task) EditForm {
	f := EditForm{
		Title:    t.Title,
		Category: t.Category,
		Priority: t.Priority,
		Status:   t.Status,
	}
	if t.DueDate != nil {
		f.DueDate = t.DueDate.UTC().Format(dates.DayLayout)
	}
	if f.Priority == "" {
		f.Priority = defaultPriority
	}
	if f.Status == "" {
		f.Status = defaultStatus
	}
	return f
}

// Patch validates the form and converts it into an update request. The
// priority is lowercased and the due date normalized to a UTC timestamp.
func (f EditForm) Patch() (client.TaskPatch, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return client.TaskPatch{}, ErrEmptyTitle
	}

	priority := strings.ToLower(strings.TrimSpace(f.Priority))
	if priority == "" {
		priority = defaultPriority
	}
	category := f.Category
	patch := client.TaskPatch{
		Title:    &title,
		Category: &category,
		Priority: &priority,
	}
	if status := strings.TrimSpace(f.Status); status != "" {
		patch.Status = &status
	}

	if raw := strings.TrimSpace(f.DueDate); raw != "" {
		t, err := dates.Parse(raw)
		if err != nil {
			return client.TaskPatch{}, ErrInvalidDueDate
		}
		due := dates.Normalize(t)
		patch.DueDate = &due
	}
	return patch, nil
}

// Updater sends a task update to the API.
type Updater interface {
	UpdateTask(ctx context.Context, creds client.Credentials, id uint, patch client.TaskPatch) (*client.Task, error)
}

// Editor performs edit round trips and refuses overlapping saves of one row.
type Editor struct {
	updater Updater

	mu       sync.Mutex
	inFlight map[uint]struct{}
}

func NewEditor(updater Updater) *Editor {
	return &Editor{updater: updater, inFlight: make(map[uint]struct{})}
}

// Save validates form locally, then submits it for task id.
func (e *Editor) Save(ctx context.Context, creds client.Credentials, id uint, form EditForm) (*client.Task, error) {
	patch, err := form.Patch()
	if err != nil {
		return nil, err
	}
	return e.submit(ctx, creds, id, patch)
}

// ToggleStatus flips a task between completed and pending.
func (e *Editor) ToggleStatus(ctx context.Context, creds client.Credentials, task client.Task) (*client.Task, error) {
	status := statusCompleted
	if task.Status == statusCompleted {
		status = defaultStatus
	}
	return e.submit(ctx, creds, task.ID, client.TaskPatch{Status: &status})
}

// Loading reports whether a save for id is in flight.
func (e *Editor) Loading(id uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.inFlight[id]
	return ok
}

func (e *Editor) submit(ctx context.Context, creds client.Credentials, id uint, patch client.TaskPatch) (*client.Task, error) {
	e.mu.Lock()
	if _, busy := e.inFlight[id]; busy {
		e.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	e.inFlight[id] = struct{}{}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inFlight, id)
		e.mu.Unlock()
	}()

	return e.updater.UpdateTask(ctx, creds, id, patch)
}
