package repositories

import (
	"context"
	"errors"
	"trackforge/internal/database"
	"trackforge/internal/models"
	"trackforge/pkg/logger"

	"gorm.io/gorm"
)

// SequenceRepository hands out entity ids. Counters start at 1, advance on
// every allocation and never rewind, so an id is never reused even after the
// record it named is deleted. Ids are only ever assigned here; external ids
// are never accepted on create.
type SequenceRepository interface {
	Allocate(ctx context.Context, tx *gorm.DB, name string) (int64, error)
}

type sequenceRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSequenceRepository(db database.DB) SequenceRepository {
	return &sequenceRepository{
		db:  db,
		log: logger.New("sequenceRepository"),
	}
}

// Allocate returns the next id for the named sequence and advances it. Must
// run inside the creating transaction, under the store gate.
func (r *sequenceRepository) Allocate(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	log := r.log.Function("Allocate")

	var seq models.Sequence
	err := tx.WithContext(ctx).First(&seq, "name = ?", name).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, log.Err("failed to load sequence", err, "name", name)
		}
		seq = models.Sequence{Name: name, Next: 1}
		if err := tx.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, log.Err("failed to create sequence", err, "name", name)
		}
	}

	id := seq.Next
	seq.Next = id + 1
	if err := tx.WithContext(ctx).Save(&seq).Error; err != nil {
		return 0, log.Err("failed to advance sequence", err, "name", name)
	}

	return id, nil
}
