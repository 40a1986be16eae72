// Package stats derives dashboard figures from an in-memory task list.
package stats

import (
	"strings"
	"time"

	"smart-tasks/internal/client"
	"smart-tasks/internal/dates"
)

const (
	// Uncategorized labels tasks without a category.
	Uncategorized = "Uncategorized"

	statusCompleted = "completed"
	historyDays     = 7
)

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats are the figures shown above the task table.
type Stats struct {
	TodayTasks         int             `json:"todayTasks"`
	CompletedLast7Days []DayCount      `json:"completedLast7Days"`
	Categories         []CategoryCount `json:"categories"`
}

// Compute derives Stats from tasks as seen at now. Calendar days are taken in
// now's location. It has no side effects.
func Compute(tasks []client.Task, now time.Time) Stats {
	loc := now.Location()
	today := dates.Day(now, loc)

	history := make([]DayCount, historyDays)
	index := make(map[string]int, historyDays)
	for i := 0; i < historyDays; i++ {
		day := dates.Day(now.AddDate(0, 0, i-(historyDays-1)), loc)
		history[i] = DayCount{Date: day}
		index[day] = i
	}

	s := Stats{CompletedLast7Days: history, Categories: []CategoryCount{}}
	categoryIndex := make(map[string]int)

	for _, t := range tasks {
		completed := t.Status == statusCompleted
		if t.DueDate != nil {
			day := dates.Day(*t.DueDate, loc)
			if day == today && !completed {
				s.TodayTasks++
			}
			if i, ok := index[day]; ok && completed {
				history[i].Count++
			}
		}

		category := strings.TrimSpace(t.Category)
		if category == "" {
			category = Uncategorized
		}
		if i, ok := categoryIndex[category]; ok {
			s.Categories[i].Count++
			continue
		}
		categoryIndex[category] = len(s.Categories)
		s.Categories = append(s.Categories, CategoryCount{Category: category, Count: 1})
	}

	return s
}

// Overdue reports whether t is past its due date and not completed.
func Overdue(t client.Task, now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != statusCompleted
}
