package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"smart-tasks/internal/model"
)

// TaskRepository handles CRUD for tasks. Every per-task query is scoped by owner.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskSummary aggregates task counts across all users.
type TaskSummary struct {
	Total     int64
	Completed int64
	Pending   int64
	DueToday  int64
	Overdue   int64
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// Update applies column updates to an owned task and reloads it.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, updates map[string]interface{}) error {
	db := r.db.WithContext(ctx)
	if len(updates) > 0 {
		if err := db.Model(&model.Task{}).
			Where("user_id = ? AND id = ?", task.UserID, task.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("update task: %w", err)
		}
	}
	// Reload into a zero value: gorm leaves pointer fields alone for NULL columns.
	var fresh model.Task
	if err := db.Where("user_id = ? AND id = ?", task.UserID, task.ID).First(&fresh).Error; err != nil {
		return fmt.Errorf("reload task: %w", err)
	}
	*task = fresh
	return nil
}

// Delete removes a task for the given user. It returns gorm.ErrRecordNotFound
// (wrapped) when the user owns no such task.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete task: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// CountByUser returns the total and completed task counts for a user.
func (r *TaskRepository) CountByUser(ctx context.Context, userID uint) (total, completed int64, err error) {
	if err = r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("count tasks: %w", err)
	}
	if err = r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ?", userID, model.StatusCompleted).
		Count(&completed).Error; err != nil {
		return 0, 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return total, completed, nil
}

// Summary counts tasks across all users. Due-today and overdue only consider
// tasks that are not completed; the day is [dayStart, dayStart+24h).
func (r *TaskRepository) Summary(ctx context.Context, dayStart time.Time) (TaskSummary, error) {
	var s TaskSummary
	dayStart = dayStart.UTC()
	dayEnd := dayStart.Add(24 * time.Hour)
	counts := []struct {
		dst   *int64
		query string
		args  []interface{}
	}{
		{&s.Total, "1 = 1", nil},
		{&s.Completed, "status = ?", []interface{}{model.StatusCompleted}},
		{&s.Pending, "status = ?", []interface{}{model.StatusPending}},
		{&s.DueToday, "status <> ? AND due_date >= ? AND due_date < ?", []interface{}{model.StatusCompleted, dayStart, dayEnd}},
		{&s.Overdue, "status <> ? AND due_date < ?", []interface{}{model.StatusCompleted, dayStart}},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(&model.Task{}).Where(c.query, c.args...).Count(c.dst).Error; err != nil {
			return TaskSummary{}, fmt.Errorf("summarize tasks: %w", err)
		}
	}
	return s, nil
}
