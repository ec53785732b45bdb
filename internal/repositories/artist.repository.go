package repositories

import (
	"context"
	"errors"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/pkg/logger"

	"gorm.io/gorm"
)

type ArtistRepository interface {
	Create(ctx context.Context, tx *gorm.DB, artist *Artist) error
	GetByID(ctx context.Context, id int64) (*Artist, error)
	GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*Artist, error)
	Save(ctx context.Context, tx *gorm.DB, artist *Artist) error
	List(ctx context.Context) ([]Artist, error)
	Count(ctx context.Context) (int64, error)
}

type artistRepository struct {
	db  database.DB
	log logger.Logger
}

func NewArtistRepository(db database.DB) ArtistRepository {
	return &artistRepository{
		db:  db,
		log: logger.New("artistRepository"),
	}
}

func (r *artistRepository) Create(ctx context.Context, tx *gorm.DB, artist *Artist) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(artist).Error; err != nil {
		return log.Err("failed to create artist", err, "artistID", artist.ID)
	}

	return nil
}

// GetByID returns (nil, nil) when the artist does not exist.
func (r *artistRepository) GetByID(ctx context.Context, id int64) (*Artist, error) {
	return r.GetByIDTx(ctx, r.db.SQL, id)
}

func (r *artistRepository) GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*Artist, error) {
	log := r.log.Function("GetByIDTx")

	var artist Artist
	if err := tx.WithContext(ctx).First(&artist, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get artist by ID", err, "id", id)
	}

	return &artist, nil
}

func (r *artistRepository) Save(ctx context.Context, tx *gorm.DB, artist *Artist) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Save(artist).Error; err != nil {
		return log.Err("failed to save artist", err, "artistID", artist.ID)
	}

	return nil
}

func (r *artistRepository) List(ctx context.Context) ([]Artist, error) {
	log := r.log.Function("List")

	var artists []Artist
	if err := r.db.SQLWithContext(ctx).Order("id").Find(&artists).Error; err != nil {
		return nil, log.Err("failed to list artists", err)
	}

	return artists, nil
}

func (r *artistRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.db.SQLWithContext(ctx).Model(&Artist{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count artists", err)
	}

	return count, nil
}
