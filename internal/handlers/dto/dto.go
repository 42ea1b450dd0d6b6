package dto

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"
	"todoTracker/internal/models/task"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// в ошибках используем имена полей из json
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError - ошибка валидации одного поля запроса
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "max":
		return fmt.Sprintf("длина не больше %s символов", fe.Param())
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "ожидается дата в формате YYYY-MM-DD"
	default:
		return fmt.Sprintf("не прошло проверку %s", fe.Tag())
	}
}

func toFieldError(field string, err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		if field == "" {
			field = fe.Field()
		}
		return &FieldError{Field: field, Reason: reasonFor(fe)}
	}
	return &FieldError{Field: field, Reason: err.Error()}
}

const (
	ruleTitle       = "required,max=100"
	ruleDescription = "max=500"
	ruleStatus      = "oneof=pending completed"
	rulePriority    = "oneof=low medium high"
	ruleDate        = "datetime=2006-01-02"
)

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	DueDate     *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

func (r *CreateTaskRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return toFieldError("", err)
	}
	return nil
}

// Options переводит проверенный запрос в опции модели.
func (r *CreateTaskRequest) Options() ([]task.TaskOption, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	opts := []task.TaskOption{task.WithDescription(r.Description)}
	if r.Status != nil {
		opts = append(opts, task.WithStatus(task.Status(*r.Status)))
	}
	if r.Priority != nil {
		opts = append(opts, task.WithPriority(task.Priority(*r.Priority)))
	}
	if r.DueDate != nil {
		d, err := task.ParseDate(*r.DueDate)
		if err != nil {
			return nil, &FieldError{Field: "due_date", Reason: err.Error()}
		}
		opts = append(opts, task.WithDueDate(&d))
	}
	return opts, nil
}

// UpdateTaskRequest: непереданный ключ не меняет поле, null очищает
// description и due_date, для остальных полей null недопустим.
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Status      Optional[string] `json:"status"`
	DueDate     Optional[string] `json:"due_date"`
	Priority    Optional[string] `json:"priority"`
}

func checkVar(field string, value any, rule string) error {
	if err := validate.Var(value, rule); err != nil {
		return toFieldError(field, err)
	}
	return nil
}

func notNull(field string) error {
	return &FieldError{Field: field, Reason: "не может быть null"}
}

func (r *UpdateTaskRequest) Patch() (task.Patch, error) {
	var p task.Patch

	if r.Title.Set {
		if r.Title.Null {
			return p, notNull("title")
		}
		if err := checkVar("title", r.Title.Value, ruleTitle); err != nil {
			return p, err
		}
		title := r.Title.Value
		p.Title = &title
	}

	if r.Description.Set {
		if r.Description.Null {
			p.Description = task.Null[string]()
		} else {
			if err := checkVar("description", r.Description.Value, ruleDescription); err != nil {
				return p, err
			}
			p.Description = task.Value(r.Description.Value)
		}
	}

	if r.Status.Set {
		if r.Status.Null {
			return p, notNull("status")
		}
		if err := checkVar("status", r.Status.Value, ruleStatus); err != nil {
			return p, err
		}
		status := task.Status(r.Status.Value)
		p.Status = &status
	}

	if r.DueDate.Set {
		if r.DueDate.Null {
			p.DueDate = task.Null[time.Time]()
		} else {
			d, err := task.ParseDate(r.DueDate.Value)
			if err != nil {
				return p, &FieldError{Field: "due_date", Reason: err.Error()}
			}
			p.DueDate = task.Value(d)
		}
	}

	if r.Priority.Set {
		if r.Priority.Null {
			return p, notNull("priority")
		}
		if err := checkVar("priority", r.Priority.Value, rulePriority); err != nil {
			return p, err
		}
		priority := task.Priority(r.Priority.Value)
		p.Priority = &priority
	}

	return p, nil
}

// ParseFilter читает status, due_date и priority из query. Пустое значение
// равносильно отсутствию параметра.
func ParseFilter(q url.Values) (task.Filter, error) {
	var f task.Filter

	if raw := q.Get("status"); raw != "" {
		if err := checkVar("status", raw, ruleStatus); err != nil {
			return f, err
		}
		s := task.Status(raw)
		f.Status = &s
	}
	if raw := q.Get("due_date"); raw != "" {
		if err := checkVar("due_date", raw, ruleDate); err != nil {
			return f, err
		}
		d, err := task.ParseDate(raw)
		if err != nil {
			return f, &FieldError{Field: "due_date", Reason: err.Error()}
		}
		f.DueDate = &d
	}
	if raw := q.Get("priority"); raw != "" {
		if err := checkVar("priority", raw, rulePriority); err != nil {
			return f, err
		}
		p := task.Priority(raw)
		f.Priority = &p
	}
	return f, nil
}

type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	DueDate     *string   `json:"due_date"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     task.FormatDate(t.DueDate),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
