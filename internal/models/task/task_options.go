package task

import (
	"time"
)

type TaskOption func(*Task)

// New собирает задачу со значениями по умолчанию, затем применяет опции.
// nil опции пропускаются.
func New(title string, opts ...TaskOption) *Task {
	t := &Task{
		Title:    title,
		Status:   StatusPending,
		Priority: PriorityMedium,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func WithDescription(description *string) TaskOption {
	if description == nil {
		return nil
	}
	return func(task *Task) {
		d := *description
		task.Description = &d
	}
}

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithDueDate(dueDate *time.Time) TaskOption {
	if dueDate == nil || dueDate.IsZero() {
		return nil
	}
	return func(task *Task) {
		d := DateOf(*dueDate)
		task.DueDate = &d
	}
}

func WithPriority(priority Priority) TaskOption {
	if priority == "" {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}
