package collabController

import (
	"context"
	"errors"
	"time"
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
	ErrConflict   = errors.New("conflict")
)

type CollabController struct {
	collabRepo         repositories.CollabRequestRepository
	sequenceRepo       repositories.SequenceRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
}

type SendCollabRequest struct {
	From    int64   `json:"from"`
	To      int64   `json:"to"`
	TrackID int64   `json:"trackId"`
	Message *string `json:"message,omitempty"`
}

type RespondCollabRequest struct {
	Accept bool `json:"accept"`
}

type CollabControllerInterface interface {
	Send(ctx context.Context, request *SendCollabRequest) (*CollabRequest, error)
	Respond(ctx context.Context, id int64, request *RespondCollabRequest) (*CollabRequest, error)
	ListForUser(ctx context.Context, userID int64) ([]CollabRequest, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) CollabControllerInterface {
	return &CollabController{
		collabRepo:         repos.CollabRequest,
		sequenceRepo:       repos.Sequence,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
	}
}

// Send creates a pending request unless one already exists for the same
// (from, to, track) triple. A resolved request frees the triple again.
func (c *CollabController) Send(
	ctx context.Context,
	request *SendCollabRequest,
) (*CollabRequest, error) {
	log := logger.NewWithContext(ctx, "collabController").Function("Send")

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	pending, err := c.collabRepo.HasPending(ctx, request.From, request.To, request.TrackID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, log.ErrorWithType(
			ErrConflict,
			"pending collab request already exists",
			"from", request.From,
			"to", request.To,
			"trackID", request.TrackID,
		)
	}

	var collab *CollabRequest
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		id, err := c.sequenceRepo.Allocate(ctx, tx, SeqCollabRequests)
		if err != nil {
			return err
		}

		collab = &CollabRequest{
			ID:        id,
			FromID:    request.From,
			ToID:      request.To,
			TrackID:   request.TrackID,
			Message:   request.Message,
			Status:    CollabPending,
			Timestamp: time.Now().UnixMilli(),
		}

		return c.collabRepo.Create(ctx, tx, collab)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Collab request sent", "requestID", collab.ID, "from", request.From, "to", request.To)

	return collab, nil
}

// Respond resolves a pending request to accepted or declined. Accepted and
// declined are terminal; responding again is rejected.
func (c *CollabController) Respond(
	ctx context.Context,
	id int64,
	request *RespondCollabRequest,
) (*CollabRequest, error) {
	log := logger.NewWithContext(ctx, "collabController").Function("Respond")

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var collab *CollabRequest
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		collab, err = c.collabRepo.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if collab == nil {
			return log.ErrorWithType(ErrNotFound, "collab request not found", "id", id)
		}
		if !collab.IsPending() {
			return log.ErrorWithType(
				ErrConflict,
				"collab request already resolved",
				"id", id,
				"status", collab.Status,
			)
		}

		if request.Accept {
			collab.Status = CollabAccepted
		} else {
			collab.Status = CollabDeclined
		}

		return c.collabRepo.Save(ctx, tx, collab)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Collab request resolved", "requestID", id, "status", collab.Status)

	return collab, nil
}

func (c *CollabController) ListForUser(ctx context.Context, userID int64) ([]CollabRequest, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	return c.collabRepo.ListForUser(ctx, userID)
}
