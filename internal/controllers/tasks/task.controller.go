package taskController

import (
	"context"
	"errors"
	"trackforge/config"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/internal/repositories"
	"trackforge/internal/services"
	"trackforge/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type TaskController struct {
	taskRepo           repositories.TaskRepository
	sequenceRepo       repositories.SequenceRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
}

type CreateTaskRequest struct {
	TrackID     int64  `json:"trackId"`
	AssignedTo  int64  `json:"assignedTo"`
	Description string `json:"description"`
}

type UpdateTaskStatusRequest struct {
	Status TaskStatus `json:"status"`
}

type TaskControllerInterface interface {
	Create(ctx context.Context, request *CreateTaskRequest) (*Task, error)
	UpdateStatus(ctx context.Context, id int64, request *UpdateTaskStatusRequest) (*Task, error)
	ListByTrack(ctx context.Context, trackID int64) ([]Task, error)
	ListByAssignee(ctx context.Context, artistID int64) ([]Task, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) TaskControllerInterface {
	return &TaskController{
		taskRepo:           repos.Task,
		sequenceRepo:       repos.Sequence,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
	}
}

func (c *TaskController) Create(
	ctx context.Context,
	request *CreateTaskRequest,
) (*Task, error) {
	log := logger.NewWithContext(ctx, "taskController").Function("Create")

	if request.Description == "" {
		return nil, log.ErrorWithType(ErrValidation, "description is required")
	}

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var task *Task
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		id, err := c.sequenceRepo.Allocate(ctx, tx, SeqTasks)
		if err != nil {
			return err
		}

		task = &Task{
			ID:          id,
			TrackID:     request.TrackID,
			AssignedTo:  request.AssignedTo,
			Description: request.Description,
			Status:      TaskOpen,
		}

		return c.taskRepo.Create(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Task created", "taskID", task.ID, "trackID", request.TrackID)

	return task, nil
}

// UpdateStatus writes any valid status; transitions are deliberately
// unconstrained. updated_at refreshes on every write.
func (c *TaskController) UpdateStatus(
	ctx context.Context,
	id int64,
	request *UpdateTaskStatusRequest,
) (*Task, error) {
	log := logger.NewWithContext(ctx, "taskController").Function("UpdateStatus")

	if !request.Status.Valid() {
		return nil, log.ErrorWithType(ErrValidation, "invalid status", "status", request.Status)
	}

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var task *Task
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		task, err = c.taskRepo.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if task == nil {
			return log.ErrorWithType(ErrNotFound, "task not found", "id", id)
		}

		task.Status = request.Status

		return c.taskRepo.Save(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Task status updated", "taskID", id, "status", request.Status)

	return task, nil
}

func (c *TaskController) ListByTrack(ctx context.Context, trackID int64) ([]Task, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	return c.taskRepo.ListByTrack(ctx, trackID)
}

func (c *TaskController) ListByAssignee(ctx context.Context, artistID int64) ([]Task, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	return c.taskRepo.ListByAssignee(ctx, artistID)
}
