package repositories

import (
	"context"
	"errors"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/pkg/logger"

	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, tx *gorm.DB, task *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*Task, error)
	Save(ctx context.Context, tx *gorm.DB, task *Task) error
	ListByTrack(ctx context.Context, trackID int64) ([]Task, error)
	ListByAssignee(ctx context.Context, artistID int64) ([]Task, error)
	Count(ctx context.Context) (int64, error)
}

type taskRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTaskRepository(db database.DB) TaskRepository {
	return &taskRepository{
		db:  db,
		log: logger.New("taskRepository"),
	}
}

func (r *taskRepository) Create(ctx context.Context, tx *gorm.DB, task *Task) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(task).Error; err != nil {
		return log.Err("failed to create task", err, "taskID", task.ID)
	}

	return nil
}

// GetByID returns (nil, nil) when the task does not exist.
func (r *taskRepository) GetByID(ctx context.Context, id int64) (*Task, error) {
	return r.GetByIDTx(ctx, r.db.SQL, id)
}

func (r *taskRepository) GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*Task, error) {
	log := r.log.Function("GetByIDTx")

	var task Task
	if err := tx.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get task by ID", err, "id", id)
	}

	return &task, nil
}

func (r *taskRepository) Save(ctx context.Context, tx *gorm.DB, task *Task) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Save(task).Error; err != nil {
		return log.Err("failed to save task", err, "taskID", task.ID)
	}

	return nil
}

func (r *taskRepository) ListByTrack(ctx context.Context, trackID int64) ([]Task, error) {
	log := r.log.Function("ListByTrack")

	tasks := make([]Task, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("track_id = ?", trackID).
		Order("id").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to list tasks for track", err, "trackID", trackID)
	}

	return tasks, nil
}

func (r *taskRepository) ListByAssignee(ctx context.Context, artistID int64) ([]Task, error) {
	log := r.log.Function("ListByAssignee")

	tasks := make([]Task, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("assigned_to = ?", artistID).
		Order("id").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to list tasks for assignee", err, "artistID", artistID)
	}

	return tasks, nil
}

func (r *taskRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.db.SQLWithContext(ctx).Model(&Task{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count tasks", err)
	}

	return count, nil
}
