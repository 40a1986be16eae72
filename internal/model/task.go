package model

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	StatusPending    = "pending"
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"
)

// Task represents a single to-do item owned by a user.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Category    string     `gorm:"index" json:"category"`
	Priority    string     `gorm:"type:varchar(16);not null;default:medium" json:"priority"`
	Status      string     `gorm:"type:varchar(16);not null;default:pending" json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ValidPriority reports whether p is one of low, medium, high.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of pending, in progress, completed.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskStats is the per-user completion summary served by the stats endpoint.
type TaskStats struct {
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
}
