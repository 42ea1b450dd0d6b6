package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// taskRecord - строка таблицы tasks. due_date хранится текстом YYYY-MM-DD:
// колонки типа date драйвер sqlite3 сам превращает в time.Time.
type taskRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"` // AUTOINCREMENT: id удалённых строк не переиспользуются
	Title       string    `gorm:"size:100;not null"`
	Description *string   `gorm:"size:500"`
	Status      string    `gorm:"size:16;not null;default:pending;index"`
	CreatedAt   time.Time `gorm:"not null"`
	DueDate     *string   `gorm:"size:10;index"`
	Priority    string    `gorm:"size:16;not null;default:medium;index"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

func toRecord(t *task.Task) *taskRecord {
	return &taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		DueDate:     task.FormatDate(t.DueDate),
		Priority:    string(t.Priority),
	}
}

func (r *taskRecord) toTask() (*task.Task, error) {
	t := &task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      task.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		Priority:    task.Priority(r.Priority),
	}
	if r.DueDate != nil {
		d, err := task.ParseDate(*r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("задача %d: %w", r.ID, err)
		}
		t.DueDate = &d
	}
	return t, nil
}

type Storage struct {
	db *gorm.DB
}

// New открывает файл SQLite и создаёт схему, если её нет.
func New(dsn string) (*Storage, error) {
	if dsn == "" {
		dsn = "todo.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := gormlogger.New(
		logger.StdLog(),
		gormlogger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		logger.Error("Repository: Не удалось открыть SQLite", err, zap.String("dsn", dsn))
		return nil, fmt.Errorf("открытие бд: %w", err)
	}

	if isMemory(dsn) {
		// у каждого соединения своя in-memory база
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("получение пула: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&taskRecord{}); err != nil {
		logger.Error("Repository: Ошибка миграции SQLite", err)
		return nil, fmt.Errorf("миграция бд: %w", err)
	}

	logger.Info("Repository: SQLite готов", zap.String("dsn", dsn))
	return &Storage{db: db}, nil
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// ensureDirForSQLite создаёт родительскую директорию файла бд.
func ensureDirForSQLite(dsn string) error {
	if isMemory(dsn) {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("создание директории %q: %w", dir, err)
	}
	return nil
}

func (s *Storage) Close() {
	sqlDB, err := s.db.DB()
	if err != nil {
		logger.Error("Repository: Не удалось получить соединение SQLite", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Repository: Ошибка закрытия SQLite", err)
		return
	}
	logger.Info("Repository: Закрытие SQLite")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("получение соединения: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	record := toRecord(taskToCreate)
	record.ID = 0
	record.CreatedAt = time.Now()

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err)
		return fmt.Errorf("добавление задачи: %w", err)
	}

	taskToCreate.ID = record.ID
	taskToCreate.CreatedAt = record.CreatedAt
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	var record taskRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return record.toTask()
}

func (s *Storage) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	query := s.db.WithContext(ctx).Model(&taskRecord{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.DueDate != nil {
		query = query.Where("due_date = ?", filter.DueDate.Format(task.DateLayout))
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}

	var records []taskRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	tasks := make([]*task.Task, 0, len(records))
	for i := range records {
		t, err := records[i].toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// пишутся все изменяемые колонки, включая NULL; created_at не трогается
func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	record := toRecord(taskToUpdate)
	record.ID = 0

	result := s.db.WithContext(ctx).Model(&taskRecord{}).
		Where("id = ?", taskToUpdate.ID).
		Select("title", "description", "status", "due_date", "priority").
		Updates(record)
	if err := result.Error; err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	var stored taskRecord
	if err := s.db.WithContext(ctx).Select("created_at").First(&stored, "id = ?", taskToUpdate.ID).Error; err != nil {
		return fmt.Errorf("чтение created_at: %w", err)
	}
	taskToUpdate.CreatedAt = stored.CreatedAt
	return nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		logger.Error("Repository: Удаление задачи", err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
