package handlers

import (
	"context"
	"todoTracker/internal/models/task"
)

type Service interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, string, ...task.TaskOption) (*task.Task, error)
	ListTasks(context.Context, task.Filter) ([]*task.Task, error)
	GetTaskByID(context.Context, int64) (*task.Task, error)
	UpdateTask(context.Context, int64, task.Patch) (*task.Task, error)
	DeleteTask(context.Context, int64) error
}
