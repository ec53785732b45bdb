package repositories

import (
	"context"
	"errors"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/pkg/logger"

	"gorm.io/gorm"
)

type CollabRequestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, request *CollabRequest) error
	GetByID(ctx context.Context, id int64) (*CollabRequest, error)
	GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*CollabRequest, error)
	Save(ctx context.Context, tx *gorm.DB, request *CollabRequest) error
	HasPending(ctx context.Context, from, to, trackID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]CollabRequest, error)
	Count(ctx context.Context) (int64, error)
}

type collabRequestRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCollabRequestRepository(db database.DB) CollabRequestRepository {
	return &collabRequestRepository{
		db:  db,
		log: logger.New("collabRequestRepository"),
	}
}

func (r *collabRequestRepository) Create(ctx context.Context, tx *gorm.DB, request *CollabRequest) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(request).Error; err != nil {
		return log.Err("failed to create collab request", err, "requestID", request.ID)
	}

	return nil
}

// GetByID returns (nil, nil) when the request does not exist.
func (r *collabRequestRepository) GetByID(ctx context.Context, id int64) (*CollabRequest, error) {
	return r.GetByIDTx(ctx, r.db.SQL, id)
}

func (r *collabRequestRepository) GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*CollabRequest, error) {
	log := r.log.Function("GetByIDTx")

	var request CollabRequest
	if err := tx.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get collab request by ID", err, "id", id)
	}

	return &request, nil
}

func (r *collabRequestRepository) Save(ctx context.Context, tx *gorm.DB, request *CollabRequest) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Save(request).Error; err != nil {
		return log.Err("failed to save collab request", err, "requestID", request.ID)
	}

	return nil
}

// HasPending reports whether a pending request already exists for the
// (from, to, track) triple.
func (r *collabRequestRepository) HasPending(ctx context.Context, from, to, trackID int64) (bool, error) {
	log := r.log.Function("HasPending")

	var count int64
	if err := r.db.SQLWithContext(ctx).
		Model(&CollabRequest{}).
		Where("from_id = ? AND to_id = ? AND track_id = ? AND status = ?",
			from, to, trackID, CollabPending).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check pending collab requests", err,
			"from", from, "to", to, "trackID", trackID)
	}

	return count > 0, nil
}

// ListForUser returns requests on either side of the negotiation.
func (r *collabRequestRepository) ListForUser(ctx context.Context, userID int64) ([]CollabRequest, error) {
	log := r.log.Function("ListForUser")

	requests := make([]CollabRequest, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("from_id = ? OR to_id = ?", userID, userID).
		Order("id").
		Find(&requests).Error; err != nil {
		return nil, log.Err("failed to list collab requests for user", err, "userID", userID)
	}

	return requests, nil
}

func (r *collabRequestRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.db.SQLWithContext(ctx).Model(&CollabRequest{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count collab requests", err)
	}

	return count, nil
}
