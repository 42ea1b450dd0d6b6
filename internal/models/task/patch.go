package task

import "time"

// Nullable различает "поле не передано" (Set == false) и "передан null" (Set && Value == nil).
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func Value[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Patch - частичное обновление: применяются только заданные поля.
type Patch struct {
	Title       *string
	Description Nullable[string]
	Status      *Status
	DueDate     Nullable[time.Time]
	Priority    *Priority
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil &&
		!p.Description.Set &&
		p.Status == nil &&
		!p.DueDate.Set &&
		p.Priority == nil
}

// Fields возвращает имена переданных полей, для логов.
func (p Patch) Fields() []string {
	fields := []string{}
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description.Set {
		fields = append(fields, "description")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.DueDate.Set {
		fields = append(fields, "due_date")
	}
	if p.Priority != nil {
		fields = append(fields, "priority")
	}
	return fields
}

// Apply меняет только переданные поля. ID и CreatedAt не трогаются никогда.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description.Set {
		if p.Description.Value == nil {
			t.Description = nil
		} else {
			d := *p.Description.Value
			t.Description = &d
		}
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate.Set {
		if p.DueDate.Value == nil {
			t.DueDate = nil
		} else {
			d := DateOf(*p.DueDate.Value)
			t.DueDate = &d
		}
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}
