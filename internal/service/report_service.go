package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smart-tasks/internal/repository"
)

// Dashboard holds the aggregate counts shown on the admin dashboard.
type Dashboard struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
}

// ReportService builds aggregate views across all users.
type ReportService struct {
	userRepo *repository.UserRepository
	taskRepo *repository.TaskRepository
}

func NewReportService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository) *ReportService {
	return &ReportService{userRepo: userRepo, taskRepo: taskRepo}
}

func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	summary, err := s.taskRepo.Summary(ctx, startOfDay(time.Now()))
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		TotalUsers:     users,
		TotalTasks:     summary.Total,
		CompletedTasks: summary.Completed,
		PendingTasks:   summary.Pending,
	}, nil
}

// DailySummary renders the plain-text digest for the day containing now.
func (s *ReportService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return "", err
	}
	summary, err := s.taskRepo.Summary(ctx, startOfDay(now))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily summary for %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Users: %d\n", users)
	fmt.Fprintf(&b, "Tasks: %d total, %d completed, %d pending\n", summary.Total, summary.Completed, summary.Pending)
	fmt.Fprintf(&b, "Due today: %d\n", summary.DueToday)
	if summary.Overdue > 0 {
		fmt.Fprintf(&b, "Overdue: %d\n", summary.Overdue)
	}
	return strings.TrimSpace(b.String()), nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
