package activityController

import (
	"context"
	"trackforge/config"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/internal/repositories"
	"trackforge/internal/services"
)

type ActivityController struct {
	activityRepo       repositories.ActivityRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
}

type ActivityControllerInterface interface {
	ListByUser(ctx context.Context, userID int64) ([]Activity, error)
	Recent(ctx context.Context, count int64) ([]Activity, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) ActivityControllerInterface {
	return &ActivityController{
		activityRepo:       repos.Activity,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
	}
}

// ListByUser preserves insertion order within the filter.
func (c *ActivityController) ListByUser(ctx context.Context, userID int64) ([]Activity, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	return c.activityRepo.ListByUser(ctx, userID)
}

// Recent returns the tail of the feed, clamped to its length.
func (c *ActivityController) Recent(ctx context.Context, count int64) ([]Activity, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	return c.activityRepo.Recent(ctx, count)
}
