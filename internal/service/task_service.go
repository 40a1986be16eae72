package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"smart-tasks/internal/model"
	"smart-tasks/internal/repository"
)

// TaskInput represents data required to create a task. Empty priority and
// status take the model defaults.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	DueDate     *time.Time
}

// TaskPatch is a partial update. Nil fields are left untouched; DueDateSet
// with a nil DueDate clears the due date.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
	Status      *string
	DueDate     *time.Time
	DueDateSet  bool
}

// StatsCache stores per-user stats between writes. LoadStats reports the
// cache generation it looked at; StoreStats must be given that generation so
// that counts taken before a concurrent write are never served after it.
type StatsCache interface {
	LoadStats(ctx context.Context, userID uint) (model.TaskStats, int64, bool)
	StoreStats(ctx context.Context, userID uint, gen int64, stats model.TaskStats)
	EvictStats(ctx context.Context, userID uint)
}

type noopStatsCache struct{}

func (noopStatsCache) LoadStats(context.Context, uint) (model.TaskStats, int64, bool) {
	return model.TaskStats{}, -1, false
}
func (noopStatsCache) StoreStats(context.Context, uint, int64, model.TaskStats) {}
func (noopStatsCache) EvictStats(context.Context, uint)                         {}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	cache    StatsCache
}

func NewTaskService(taskRepo *repository.TaskRepository, cache StatsCache) *TaskService {
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &TaskService{taskRepo: taskRepo, cache: cache}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	task := model.Task{
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     utc(input.DueDate),
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if !model.ValidPriority(task.Priority) {
		return nil, ErrInvalidPriority
	}
	if !model.ValidStatus(task.Status) {
		return nil, ErrInvalidStatus
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	s.cache.EvictStats(ctx, userID)
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID uint) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID)
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}
	return task, nil
}

// UpdateTask validates the patch, then applies it to a task owned by userID.
// Validation happens before the ownership lookup.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint, patch TaskPatch) (*model.Task, error) {
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return nil, ErrInvalidPriority
	}
	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		return nil, ErrInvalidStatus
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrEmptyTitle
	}

	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}

	updates := make(map[string]interface{})
	if patch.Title != nil {
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Category != nil {
		updates["category"] = strings.TrimSpace(*patch.Category)
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.DueDateSet {
		if patch.DueDate == nil {
			updates["due_date"] = nil
		} else {
			updates["due_date"] = patch.DueDate.UTC()
		}
	}

	if err := s.taskRepo.Update(ctx, task, updates); err != nil {
		return nil, notFound(err)
	}
	s.cache.EvictStats(ctx, userID)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint) error {
	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		return notFound(err)
	}
	s.cache.EvictStats(ctx, userID)
	return nil
}

// Stats returns total and completed counts for the user's tasks.
func (s *TaskService) Stats(ctx context.Context, userID uint) (model.TaskStats, error) {
	stats, gen, ok := s.cache.LoadStats(ctx, userID)
	if ok {
		return stats, nil
	}
	total, completed, err := s.taskRepo.CountByUser(ctx, userID)
	if err != nil {
		return model.TaskStats{}, err
	}
	stats = model.TaskStats{TotalTasks: total, CompletedTasks: completed}
	s.cache.StoreStats(ctx, userID, gen, stats)
	return stats, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTaskNotFound
	}
	return err
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
