package httpapi

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"smart-tasks/internal/dates"
	"smart-tasks/internal/service"
)

// optionalTime records whether a date field was present at all, so that an
// explicit null can clear a due date while an absent key leaves it alone.
type optionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *optionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return dates.ErrInvalidDate
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := dates.Parse(raw)
	if err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// dueDate resolves the canonical dueDate key, falling back to the legacy
// snake_case due_date key some clients still send.
func dueDate(canonical, legacy optionalTime) optionalTime {
	if canonical.Set {
		return canonical
	}
	return legacy
}

type createTaskRequest struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Category      string       `json:"category"`
	Priority      string       `json:"priority"`
	Status        string       `json:"status"`
	DueDate       optionalTime `json:"dueDate"`
	LegacyDueDate optionalTime `json:"due_date"`
}

func (r createTaskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
		Status:      r.Status,
		DueDate:     dueDate(r.DueDate, r.LegacyDueDate).Value,
	}
}

type updateTaskRequest struct {
	Title         *string      `json:"title"`
	Description   *string      `json:"description"`
	Category      *string      `json:"category"`
	Priority      *string      `json:"priority"`
	Status        *string      `json:"status"`
	DueDate       optionalTime `json:"dueDate"`
	LegacyDueDate optionalTime `json:"due_date"`
}

func (r updateTaskRequest) patch() service.TaskPatch {
	due := dueDate(r.DueDate, r.LegacyDueDate)
	return service.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
		Status:      r.Status,
		DueDate:     due.Value,
		DueDateSet:  due.Set,
	}
}

var errEmptyBody = errors.New("empty body")

// decodeJSON reads the request body into dst. echo's Bind is avoided here
// because it cannot tell an explicit null from an absent field.
func decodeJSON(c echo.Context, dst any) error {
	body := c.Request().Body
	if body == nil {
		return errEmptyBody
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}
