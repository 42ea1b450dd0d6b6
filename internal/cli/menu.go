package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"todoTracker/internal/client"
	"todoTracker/internal/handlers/dto"
)

type TaskClient interface {
	Create(context.Context, dto.CreateTaskRequest) (*dto.TaskResponse, error)
	List(context.Context, url.Values) ([]dto.TaskResponse, error)
	Get(context.Context, int64) (*dto.TaskResponse, error)
	Update(context.Context, int64, map[string]string) (*dto.TaskResponse, error)
	Delete(context.Context, int64) error
}

const titleWidth = 20

// errInputClosed - ввод закончился посреди диалога
var errInputClosed = errors.New("ввод закрыт")

// Menu - интерактивное меню работы с задачами
type Menu struct {
	client TaskClient
	in     *bufio.Scanner
	out    io.Writer
}

func NewMenu(c TaskClient, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		client: c,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run крутит меню до выбора "6" или конца ввода.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printMenu()

		choice, err := m.prompt("Ваш выбор: ")
		if err != nil {
			return m.finish(err)
		}

		switch choice {
		case "1":
			err = m.createTask(ctx)
		case "2":
			err = m.listTasks(ctx)
		case "3":
			err = m.showTask(ctx)
		case "4":
			err = m.updateTask(ctx)
		case "5":
			err = m.deleteTask(ctx)
		case "6":
			m.println("До свидания!")
			return nil
		default:
			m.println("Неверный выбор. Попробуйте снова.")
		}

		if err != nil {
			return m.finish(err)
		}
	}
}

// finish: конец ввода - штатный выход, остальное возвращается вызывающему
func (m *Menu) finish(err error) error {
	if errors.Is(err, errInputClosed) {
		m.println("\nДо свидания!")
		return nil
	}
	return fmt.Errorf("чтение ввода: %w", err)
}

func (m *Menu) printMenu() {
	m.println("\nСПИСОК ДЕЛ")
	m.println("1. Создать задачу")
	m.println("2. Все задачи")
	m.println("3. Задача по ID")
	m.println("4. Обновить задачу")
	m.println("5. Удалить задачу")
	m.println("6. Выход")
}

func (m *Menu) println(a ...any) {
	fmt.Fprintln(m.out, a...)
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// promptID возвращает ok = false, если ввод не целое число
func (m *Menu) promptID(label string) (int64, bool, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		m.println("Неверный ввод: ID должен быть целым числом.")
		return 0, false, nil
	}
	return id, true, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// reportError печатает текст ответа сервера или ошибку транспорта
func (m *Menu) reportError(prefix string, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		m.println(prefix, apiErr.Body)
		return
	}
	m.println(prefix, err)
}

func (m *Menu) createTask(ctx context.Context) error {
	var answers [5]string
	labels := [5]string{
		"Название: ",
		"Описание (необязательно): ",
		"Статус (pending/completed) [pending]: ",
		"Срок (YYYY-MM-DD, необязательно): ",
		"Приоритет (low/medium/high) [medium]: ",
	}
	for i, label := range labels {
		answer, err := m.prompt(label)
		if err != nil {
			return err
		}
		answers[i] = answer
	}

	created, err := m.client.Create(ctx, dto.CreateTaskRequest{
		Title:       answers[0],
		Description: optional(answers[1]),
		Status:      optional(answers[2]),
		DueDate:     optional(answers[3]),
		Priority:    optional(answers[4]),
	})
	if err != nil {
		m.reportError("Ошибка:", err)
		return nil
	}

	m.println("Задача создана:")
	m.printTask(created)
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func (m *Menu) listTasks(ctx context.Context) error {
	tasks, err := m.client.List(ctx, nil)
	if err != nil {
		m.reportError("Ошибка получения задач:", err)
		return nil
	}
	if len(tasks) == 0 {
		m.println("Задач нет.")
		return nil
	}

	m.println("Задачи:")
	fmt.Fprintf(m.out, "%-9s %-20s %-10s %-12s %-8s\n", "ID", "Title", "Status", "Due Date", "Priority")
	m.println(strings.Repeat("-", 60))
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
		}
		fmt.Fprintf(m.out, "%-9d %-20s %-10s %-12s %-8s\n",
			t.ID, truncate(t.Title, titleWidth), t.Status, due, t.Priority)
	}
	return nil
}

func orNone(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}

func (m *Menu) printTask(t *dto.TaskResponse) {
	fmt.Fprintf(m.out, "ID: %d\n", t.ID)
	fmt.Fprintf(m.out, "Title: %s\n", t.Title)
	fmt.Fprintf(m.out, "Description: %s\n", orNone(t.Description))
	fmt.Fprintf(m.out, "Status: %s\n", t.Status)
	fmt.Fprintf(m.out, "Due Date: %s\n", orNone(t.DueDate))
	fmt.Fprintf(m.out, "Priority: %s\n", t.Priority)
}

func (m *Menu) showTask(ctx context.Context) error {
	id, ok, err := m.promptID("ID задачи: ")
	if err != nil || !ok {
		return err
	}

	found, err := m.client.Get(ctx, id)
	if err != nil {
		m.reportError("Задача не найдена:", err)
		return nil
	}
	m.printTask(found)
	return nil
}

func (m *Menu) updateTask(ctx context.Context) error {
	id, ok, err := m.promptID("ID задачи для обновления: ")
	if err != nil || !ok {
		return err
	}

	fields := []struct {
		key   string
		label string
	}{
		{"title", "Новое название (пусто - пропустить): "},
		{"description", "Новое описание (пусто - пропустить): "},
		{"status", "Новый статус (pending/completed, пусто - пропустить): "},
		{"due_date", "Новый срок (YYYY-MM-DD, пусто - пропустить): "},
		{"priority", "Новый приоритет (low/medium/high, пусто - пропустить): "},
	}

	data := make(map[string]string)
	for _, f := range fields {
		answer, err := m.prompt(f.label)
		if err != nil {
			return err
		}
		if answer != "" {
			data[f.key] = answer
		}
	}

	if len(data) == 0 {
		m.println("Нечего обновлять.")
		return nil
	}

	updated, err := m.client.Update(ctx, id, data)
	if err != nil {
		m.reportError("Ошибка обновления задачи:", err)
		return nil
	}

	m.println("Задача обновлена:")
	m.printTask(updated)
	return nil
}

func (m *Menu) deleteTask(ctx context.Context) error {
	id, ok, err := m.promptID("ID задачи для удаления: ")
	if err != nil || !ok {
		return err
	}

	if err := m.client.Delete(ctx, id); err != nil {
		m.reportError("Ошибка удаления задачи:", err)
		return nil
	}
	m.println("Задача удалена.")
	return nil
}
