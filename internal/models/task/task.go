package task

import (
	"fmt"
	"time"
)

const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500

	// формат due_date в запросах, ответах и фильтрах
	DateLayout = "2006-01-02"
)

type Task struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	Priority    Priority   `json:"priority" db:"priority"`
}

type Status string
type Priority string

const StatusPending Status = "pending"
const StatusCompleted Status = "completed"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("неизвестный статус %q, допустимо: pending, completed", raw)
	}
	return s, nil
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if !p.Valid() {
		return "", fmt.Errorf("неизвестный приоритет %q, допустимо: low, medium, high", raw)
	}
	return p, nil
}

// ParseDate разбирает дату вида YYYY-MM-DD в полночь UTC.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("неверный формат даты %q, ожидается YYYY-MM-DD", raw)
	}
	return d, nil
}

// DateOf отбрасывает время суток, сохраняя календарную дату в локальной зоне t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(DateLayout)
	return &s
}

// Filter - условия выборки списка, nil поле не применяется
type Filter struct {
	Status   *Status
	DueDate  *time.Time
	Priority *Priority
}

func (f Filter) Match(t *Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.DueDate != nil {
		if t.DueDate == nil || !DateOf(*t.DueDate).Equal(DateOf(*f.DueDate)) {
			return false
		}
	}
	return true
}

func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}
