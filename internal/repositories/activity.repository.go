package repositories

import (
	"context"
	"time"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/pkg/logger"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	Log(ctx context.Context, tx *gorm.DB, userID int64, action, details string) (*Activity, error)
	ListByUser(ctx context.Context, userID int64) ([]Activity, error)
	Recent(ctx context.Context, count int64) ([]Activity, error)
	Count(ctx context.Context) (int64, error)
}

type activityRepository struct {
	db        database.DB
	sequences SequenceRepository
	log       logger.Logger
}

func NewActivityRepository(db database.DB, sequences SequenceRepository) ActivityRepository {
	return &activityRepository{
		db:        db,
		sequences: sequences,
		log:       logger.New("activityRepository"),
	}
}

// Log appends an entry to the platform-wide feed inside the caller's
// transaction.
func (r *activityRepository) Log(ctx context.Context, tx *gorm.DB, userID int64, action, details string) (*Activity, error) {
	log := r.log.Function("Log")

	id, err := r.sequences.Allocate(ctx, tx, SeqActivities)
	if err != nil {
		return nil, err
	}

	activity := &Activity{
		ID:        id,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}

	if err := tx.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, log.Err("failed to log activity", err, "userID", userID, "action", action)
	}

	return activity, nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID int64) ([]Activity, error) {
	log := r.log.Function("ListByUser")

	activities := make([]Activity, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&activities).Error; err != nil {
		return nil, log.Err("failed to list activities for user", err, "userID", userID)
	}

	return activities, nil
}

// Recent returns the newest entries in insertion order, clamped to the feed
// length.
func (r *activityRepository) Recent(ctx context.Context, count int64) ([]Activity, error) {
	log := r.log.Function("Recent")

	if count <= 0 {
		return []Activity{}, nil
	}

	var newest []Activity
	if err := r.db.SQLWithContext(ctx).
		Order("id DESC").
		Limit(int(count)).
		Find(&newest).Error; err != nil {
		return nil, log.Err("failed to list recent activities", err, "count", count)
	}

	activities := make([]Activity, len(newest))
	for i, activity := range newest {
		activities[len(newest)-1-i] = activity
	}

	return activities, nil
}

func (r *activityRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.db.SQLWithContext(ctx).Model(&Activity{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count activities", err)
	}

	return count, nil
}
