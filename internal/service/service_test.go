package service_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
	"todoTracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// фиксированное "сейчас": 15 октября 2026, середина дня
var fixedNow = time.Date(2026, 10, 15, 13, 0, 0, 0, time.Local)

func newService(repo service.TaskRepository) *service.TaskService {
	return service.NewTaskService(repo, service.WithClock(func() time.Time { return fixedNow }))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func assertBusinessCode(t *testing.T, err error, code string) {
	t.Helper()
	var businessErr *service.BusinessError
	require.True(t, errors.As(err, &businessErr), "ожидалась BusinessError, получено %v", err)
	assert.Equal(t, code, businessErr.Code)
}

// TestTaskService_HealthCheck тестирует HealthCheck
func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success - health check passes",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
		},
		{
			name: "error - health check fails",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			err := newService(mockRepo).HealthCheck(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "проверка здоровья сервиса")
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_CreateTask тестирует создание задачи и проверку срока
func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		opts        []task.TaskOption
		expectRepo  bool
		expectCode  string
		expectField string
	}{
		{
			name:       "success - no due date",
			title:      "Buy milk",
			opts:       []task.TaskOption{task.WithPriority(task.PriorityHigh)},
			expectRepo: true,
		},
		{
			name:       "success - due today",
			title:      "Today",
			opts:       []task.TaskOption{task.WithDueDate(date(2026, 10, 15))},
			expectRepo: true,
		},
		{
			name:       "success - due in future",
			title:      "Later",
			opts:       []task.TaskOption{task.WithDueDate(date(2027, 1, 1))},
			expectRepo: true,
		},
		{
			name:        "error - due yesterday",
			title:       "Late",
			opts:        []task.TaskOption{task.WithDueDate(date(2026, 10, 14))},
			expectCode:  service.CodeValidation,
			expectField: "due_date",
		},
		{
			name:        "error - empty title",
			title:       "",
			expectCode:  service.CodeValidation,
			expectField: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			if tt.expectRepo {
				mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*task.Task")).
					Run(func(args mock.Arguments) {
						created := args.Get(1).(*task.Task)
						created.ID = 1
						created.CreatedAt = fixedNow
					}).
					Return(nil)
			}

			created, err := newService(mockRepo).CreateTask(context.Background(), tt.title, tt.opts...)

			if tt.expectCode != "" {
				require.Error(t, err)
				assertBusinessCode(t, err, tt.expectCode)
				var businessErr *service.BusinessError
				require.True(t, errors.As(err, &businessErr))
				assert.Equal(t, tt.expectField, businessErr.Details["field"])
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), created.ID)
			assert.Equal(t, tt.title, created.Title)
			assert.Equal(t, task.StatusPending, created.Status)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_CreateTask_RepoError(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := newService(mockRepo).CreateTask(context.Background(), "title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var businessErr *service.BusinessError
	assert.False(t, errors.As(err, &businessErr))
}

// TestTaskService_GetTaskByID тестирует получение задачи
func TestTaskService_GetTaskByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(5)).Return(&task.Task{ID: 5, Title: "x"}, nil)

		got, err := newService(mockRepo).GetTaskByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(5)).Return(nil, repository.ErrNotFound)

		_, err := newService(mockRepo).GetTaskByID(ctx, 5)
		assertBusinessCode(t, err, service.CodeNotFound)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("storage error", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(5)).Return(nil, errors.New("connection reset"))

		_, err := newService(mockRepo).GetTaskByID(ctx, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "получение задачи")
	})
}

func TestTaskService_ListTasks(t *testing.T) {
	completed := task.StatusCompleted
	filter := task.Filter{Status: &completed}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("List", mock.Anything, filter).Return([]*task.Task{{ID: 1, Status: task.StatusCompleted}}, nil)

	tasks, err := newService(mockRepo).ListTasks(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	mockRepo.AssertExpectations(t)
}

// TestTaskService_UpdateTask тестирует частичное обновление
func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	desc := "desc"
	existing := func() *task.Task {
		return &task.Task{
			ID:          3,
			Title:       "title",
			Description: &desc,
			Status:      task.StatusPending,
			CreatedAt:   fixedNow.Add(-time.Hour),
			DueDate:     date(2026, 12, 1),
			Priority:    task.PriorityLow,
		}
	}

	t.Run("status only leaves other fields", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(3)).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)

		completed := task.StatusCompleted
		updated, err := newService(mockRepo).UpdateTask(ctx, 3, task.Patch{Status: &completed})
		require.NoError(t, err)

		before := existing()
		assert.Equal(t, task.StatusCompleted, updated.Status)
		assert.Equal(t, before.Title, updated.Title)
		assert.Equal(t, before.Description, updated.Description)
		assert.Equal(t, before.DueDate, updated.DueDate)
		assert.Equal(t, before.Priority, updated.Priority)
		assert.Equal(t, before.CreatedAt, updated.CreatedAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(3)).Return(existing(), nil)

		updated, err := newService(mockRepo).UpdateTask(ctx, 3, task.Patch{})
		require.NoError(t, err)
		assert.Equal(t, existing(), updated)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("completed task can be reverted", func(t *testing.T) {
		done := existing()
		done.Status = task.StatusCompleted

		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(3)).Return(done, nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		pending := task.StatusPending
		updated, err := newService(mockRepo).UpdateTask(ctx, 3, task.Patch{Status: &pending})
		require.NoError(t, err)
		assert.Equal(t, task.StatusPending, updated.Status)
	})

	t.Run("past due date rejected before reading", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)

		_, err := newService(mockRepo).UpdateTask(ctx, 3, task.Patch{DueDate: task.Value(*date(2026, 10, 1))})
		assertBusinessCode(t, err, service.CodeValidation)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("clearing due date is allowed", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(3)).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		updated, err := newService(mockRepo).UpdateTask(ctx, 3, task.Patch{DueDate: task.Null[time.Time]()})
		require.NoError(t, err)
		assert.Nil(t, updated.DueDate)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		empty := ""

		_, err := newService(mockRepo).UpdateTask(ctx, 3, task.Patch{Title: &empty})
		assertBusinessCode(t, err, service.CodeValidation)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(3)).Return(nil, repository.ErrNotFound)

		completed := task.StatusCompleted
		_, err := newService(mockRepo).UpdateTask(ctx, 3, task.Patch{Status: &completed})
		assertBusinessCode(t, err, service.CodeNotFound)
	})

	t.Run("deleted between read and write", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, int64(3)).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrNotFound)

		completed := task.StatusCompleted
		_, err := newService(mockRepo).UpdateTask(ctx, 3, task.Patch{Status: &completed})
		assertBusinessCode(t, err, service.CodeNotFound)
	})
}

// TestTaskService_DeleteTask тестирует удаление
func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Delete", mock.Anything, int64(9)).Return(nil)

		assert.NoError(t, newService(mockRepo).DeleteTask(ctx, 9))
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Delete", mock.Anything, int64(9)).Return(repository.ErrNotFound)

		err := newService(mockRepo).DeleteTask(ctx, 9)
		assertBusinessCode(t, err, service.CodeNotFound)
	})
}
