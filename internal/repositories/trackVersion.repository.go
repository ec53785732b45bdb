package repositories

import (
	"context"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/pkg/logger"

	"gorm.io/gorm"
)

type TrackVersionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, version *TrackVersion) error
	ListByTrack(ctx context.Context, trackID int64) ([]TrackVersion, error)
	DeleteByTrack(ctx context.Context, tx *gorm.DB, trackID int64) error
}

type trackVersionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTrackVersionRepository(db database.DB) TrackVersionRepository {
	return &trackVersionRepository{
		db:  db,
		log: logger.New("trackVersionRepository"),
	}
}

func (r *trackVersionRepository) Create(ctx context.Context, tx *gorm.DB, version *TrackVersion) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(version).Error; err != nil {
		return log.Err("failed to create track version", err,
			"trackID", version.TrackID,
			"version", version.Version,
		)
	}

	return nil
}

// ListByTrack returns the full ordered history, empty when the track is
// unknown.
func (r *trackVersionRepository) ListByTrack(ctx context.Context, trackID int64) ([]TrackVersion, error) {
	log := r.log.Function("ListByTrack")

	versions := make([]TrackVersion, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("track_id = ?", trackID).
		Order("version").
		Find(&versions).Error; err != nil {
		return nil, log.Err("failed to list track versions", err, "trackID", trackID)
	}

	return versions, nil
}

func (r *trackVersionRepository) DeleteByTrack(ctx context.Context, tx *gorm.DB, trackID int64) error {
	log := r.log.Function("DeleteByTrack")

	if err := tx.WithContext(ctx).Delete(&TrackVersion{}, "track_id = ?", trackID).Error; err != nil {
		return log.Err("failed to delete track versions", err, "trackID", trackID)
	}

	return nil
}
