package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	rep "todoTracker/internal/repository"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

type Option func(*TaskService)

// WithClock подменяет источник текущего времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

func NewTaskService(repo TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) today() time.Time {
	return task.DateOf(s.now())
}

// срок не может быть раньше сегодняшней даты (сегодня допустимо)
func (s *TaskService) checkDueDate(dueDate *time.Time) error {
	if dueDate == nil {
		return nil
	}
	if task.DateOf(*dueDate).Before(s.today()) {
		logger.Info("Service: Срок в прошлом",
			zap.String("due_date", dueDate.Format(task.DateLayout)),
			zap.String("today", s.today().Format(task.DateLayout)))
		return NewValidationError("due_date", "срок не может быть в прошлом")
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, title string, opts ...task.TaskOption) (*task.Task, error) {
	newTask := task.New(title, opts...)

	if newTask.Title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if err := s.checkDueDate(newTask.DueDate); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int64("task_id", newTask.ID))
	return newTask, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// UpdateTask применяет только переданные поля. Пустой patch - допустимый no-op,
// возвращается текущее состояние задачи.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if patch.DueDate.Set {
		if err := s.checkDueDate(patch.DueDate.Value); err != nil {
			return nil, err
		}
	}

	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		logger.Info("Service: Пустое обновление", zap.Int64("task_id", id))
		return t, nil
	}

	patch.Apply(t)

	if err := s.repo.Update(ctx, t); err != nil {
		// задачу могли удалить между чтением и записью
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	logger.Info("Service: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Strings("fields", patch.Fields()))
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return NewNotFound(id, err)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	logger.Info("Service: Задача удалена", zap.Int64("task_id", id))
	return nil
}
