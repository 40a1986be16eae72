// Package table implements the sortable, editable task list view.
package table

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"smart-tasks/internal/client"
)

type Key string

const (
	KeyNone        Key = ""
	KeyTitle       Key = "title"
	KeyDescription Key = "description"
	KeyCategory    Key = "category"
	KeyStatus      Key = "status"
	KeyPriority    Key = "priority"
	KeyDueDate     Key = "dueDate"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// maxTime stands in for a missing due date so undated tasks sort as furthest future.
var maxTime = time.Unix(1<<62, 0)

// ParseKey maps a column name to a Key. due_date is accepted as an alias.
func ParseKey(name string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return KeyNone, nil
	case "title":
		return KeyTitle, nil
	case "description":
		return KeyDescription, nil
	case "category":
		return KeyCategory, nil
	case "status":
		return KeyStatus, nil
	case "priority":
		return KeyPriority, nil
	case "duedate", "due_date", "due":
		return KeyDueDate, nil
	}
	return KeyNone, fmt.Errorf("unknown sort column %q", name)
}

// Sorter holds the active sort column and direction.
type Sorter struct {
	Key       Key
	Direction Direction
}

// Request selects key. Selecting the column that is already ascending flips
// it to descending; anything else sorts ascending.
func (s *Sorter) Request(key Key) {
	dir := Asc
	if s.Key == key && s.Direction == Asc {
		dir = Desc
	}
	s.Key = key
	s.Direction = dir
}

// Sort returns a stably sorted copy of tasks. With no key the input order is kept.
func (s Sorter) Sort(tasks []client.Task) []client.Task {
	out := make([]client.Task, len(tasks))
	copy(out, tasks)
	if s.Key == KeyNone {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(s.Key, out[i], out[j])
		if s.Direction == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compare(key Key, a, b client.Task) int {
	if key == KeyDueDate {
		at, bt := dueOrMax(a), dueOrMax(b)
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(field(key, a)), strings.ToLower(field(key, b)))
}

func dueOrMax(t client.Task) time.Time {
	if t.DueDate == nil {
		return maxTime
	}
	return *t.DueDate
}

func field(key Key, t client.Task) string {
	switch key {
	case KeyTitle:
		return t.Title
	case KeyDescription:
		return t.Description
	case KeyCategory:
		return t.Category
	case KeyStatus:
		return t.Status
	case KeyPriority:
		return t.Priority
	}
	return ""
}
