package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"smart-tasks/internal/client"
	"smart-tasks/internal/dates"
	"smart-tasks/internal/stats"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	overdueStyle = cellStyle.Foreground(lipgloss.Color("9"))

	priorityStyles = map[string]lipgloss.Style{
		"low":    cellStyle.Foreground(lipgloss.Color("8")),
		"medium": cellStyle.Foreground(lipgloss.Color("12")),
		"high":   cellStyle.Foreground(lipgloss.Color("9")).Bold(true),
	}
)

const priorityColumn = 5

var columns = []struct {
	title string
	key   Key
}{
	{"ID", KeyNone},
	{"Title", KeyTitle},
	{"Category", KeyCategory},
	{"Status", KeyStatus},
	{"Due Date", KeyDueDate},
	{"Priority", KeyPriority},
}

// Render draws tasks in the order given. Overdue rows are highlighted and the
// active sort column carries an arrow.
func Render(tasks []client.Task, sorter Sorter, now time.Time) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.title
		if col.key != KeyNone && col.key == sorter.Key {
			if sorter.Direction == Desc {
				headers[i] += " ▼"
			} else {
				headers[i] += " ▲"
			}
		}
	}

	rows := make([][]string, len(tasks))
	overdue := make([]bool, len(tasks))
	for i, t := range tasks {
		rows[i] = row(t)
		overdue[i] = stats.Overdue(t, now)
	}

	tbl := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(r, c int) lipgloss.Style {
			switch {
			case r == ltable.HeaderRow:
				return headerStyle
			case r < 0 || r >= len(tasks):
				return cellStyle
			case overdue[r]:
				return overdueStyle
			case c == priorityColumn:
				if s, ok := priorityStyles[strings.ToLower(tasks[r].Priority)]; ok {
					return s
				}
			}
			return cellStyle
		})
	return tbl.String()
}

func row(t client.Task) []string {
	category := t.Category
	if strings.TrimSpace(category) == "" {
		category = stats.Uncategorized
	}
	due := "-"
	if t.DueDate != nil {
		due = t.DueDate.UTC().Format(dates.DayLayout)
	}
	return []string{
		strconv.FormatUint(uint64(t.ID), 10),
		t.Title,
		category,
		t.Status,
		due,
		capitalize(t.Priority),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
