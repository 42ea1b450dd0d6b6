package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/task/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	storage, err := sqlite.New(filepath.Join(t.TempDir(), "data", "todo.db"))
	require.NoError(t, err)
	t.Cleanup(storage.Close)
	return storage
}

func TestStorage_HealthCheck(t *testing.T) {
	storage := newStorage(t)
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestStorage_CreateAndGet тестирует создание и чтение задачи
func TestStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	desc := "молоко 2 литра"
	due := time.Date(2040, 6, 15, 0, 0, 0, 0, time.UTC)
	created := task.New("Buy milk",
		task.WithDescription(&desc),
		task.WithDueDate(&due),
		task.WithPriority(task.PriorityHigh),
	)

	require.NoError(t, storage.Create(ctx, created))
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.Equal(t, task.StatusPending, got.Status)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestStorage_CreateWithoutOptionalFields(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	created := task.New("Bare")
	require.NoError(t, storage.Create(ctx, created))

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, task.PriorityMedium, got.Priority)
}

func TestStorage_GetByID_NotFound(t *testing.T) {
	storage := newStorage(t)

	_, err := storage.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestStorage_Update проверяет запись NULL и неизменность created_at
func TestStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	desc := "old"
	due := time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)
	created := task.New("Original", task.WithDescription(&desc), task.WithDueDate(&due))
	require.NoError(t, storage.Create(ctx, created))

	toUpdate := created.Clone()
	toUpdate.Title = "Updated"
	toUpdate.Status = task.StatusCompleted
	toUpdate.Description = nil
	toUpdate.DueDate = nil
	toUpdate.CreatedAt = time.Now().Add(72 * time.Hour)

	require.NoError(t, storage.Update(ctx, toUpdate))
	assert.True(t, created.CreatedAt.Equal(toUpdate.CreatedAt))

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)
	assert.Equal(t, task.StatusCompleted, got.Status)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.DueDate)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	missing := task.New("missing")
	missing.ID = 999
	assert.ErrorIs(t, storage.Update(ctx, missing), repository.ErrNotFound)
}

func TestStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	created := task.New("To delete")
	require.NoError(t, storage.Create(ctx, created))

	require.NoError(t, storage.Delete(ctx, created.ID))

	_, err := storage.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, storage.Delete(ctx, created.ID), repository.ErrNotFound)
}

func TestStorage_List(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	due := time.Date(2041, 2, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storage.Create(ctx, task.New("a", task.WithPriority(task.PriorityHigh))))
	require.NoError(t, storage.Create(ctx, task.New("b", task.WithStatus(task.StatusCompleted), task.WithDueDate(&due))))
	require.NoError(t, storage.Create(ctx, task.New("c", task.WithStatus(task.StatusCompleted), task.WithPriority(task.PriorityHigh))))

	all, err := storage.List(ctx, task.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Title)
	assert.Equal(t, "c", all[2].Title)

	completed := task.StatusCompleted
	high := task.PriorityHigh

	done, err := storage.List(ctx, task.Filter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, done, 2)
	for _, d := range done {
		assert.Equal(t, task.StatusCompleted, d.Status)
	}

	both, err := storage.List(ctx, task.Filter{Status: &completed, Priority: &high})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "c", both[0].Title)

	byDate, err := storage.List(ctx, task.Filter{DueDate: &due})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "b", byDate[0].Title)
}

func TestStorage_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todo.db")

	first, err := sqlite.New(path)
	require.NoError(t, err)
	created := task.New("persisted")
	require.NoError(t, first.Create(ctx, created))
	first.Close()

	second, err := sqlite.New(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
}
