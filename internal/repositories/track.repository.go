package repositories

import (
	"context"
	"errors"
	"strings"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/pkg/logger"

	"gorm.io/gorm"
)

type TrackRepository interface {
	Create(ctx context.Context, tx *gorm.DB, track *Track) error
	GetByID(ctx context.Context, id int64) (*Track, error)
	GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*Track, error)
	Save(ctx context.Context, tx *gorm.DB, track *Track) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) (bool, error)
	List(ctx context.Context) ([]Track, error)
	SearchByTitle(ctx context.Context, query string) ([]Track, error)
	SearchByContributor(ctx context.Context, artistID int64) ([]Track, error)
	SearchByTag(ctx context.Context, tag string) ([]Track, error)
	SearchByGenre(ctx context.Context, genre string) ([]Track, error)
	Count(ctx context.Context) (int64, error)
}

type trackRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTrackRepository(db database.DB) TrackRepository {
	return &trackRepository{
		db:  db,
		log: logger.New("trackRepository"),
	}
}

func (r *trackRepository) Create(ctx context.Context, tx *gorm.DB, track *Track) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(track).Error; err != nil {
		return log.Err("failed to create track", err, "trackID", track.ID)
	}

	return nil
}

// GetByID returns (nil, nil) when the track does not exist.
func (r *trackRepository) GetByID(ctx context.Context, id int64) (*Track, error) {
	return r.GetByIDTx(ctx, r.db.SQL, id)
}

func (r *trackRepository) GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*Track, error) {
	log := r.log.Function("GetByIDTx")

	var track Track
	if err := tx.WithContext(ctx).First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get track by ID", err, "id", id)
	}

	return &track, nil
}

func (r *trackRepository) Save(ctx context.Context, tx *gorm.DB, track *Track) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Save(track).Error; err != nil {
		return log.Err("failed to save track", err, "trackID", track.ID)
	}

	return nil
}

// Delete reports whether a row was actually removed.
func (r *trackRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) (bool, error) {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).Delete(&Track{}, "id = ?", id)
	if result.Error != nil {
		return false, log.Err("failed to delete track", result.Error, "id", id)
	}

	return result.RowsAffected > 0, nil
}

func (r *trackRepository) List(ctx context.Context) ([]Track, error) {
	log := r.log.Function("List")

	var tracks []Track
	if err := r.db.SQLWithContext(ctx).Order("id").Find(&tracks).Error; err != nil {
		return nil, log.Err("failed to list tracks", err)
	}

	return tracks, nil
}

// SearchByTitle matches a case-insensitive substring; an empty query returns
// every track.
func (r *trackRepository) SearchByTitle(ctx context.Context, query string) ([]Track, error) {
	log := r.log.Function("SearchByTitle")

	if query == "" {
		return r.List(ctx)
	}

	var tracks []Track
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.SQLWithContext(ctx).
		Where("lower(title) LIKE ?", pattern).
		Order("id").
		Find(&tracks).Error; err != nil {
		return nil, log.Err("failed to search tracks by title", err, "query", query)
	}

	return tracks, nil
}

// SearchByContributor filters in memory: contributor sets live in a JSON
// column and containment queries are not portable across the supported
// dialects.
func (r *trackRepository) SearchByContributor(ctx context.Context, artistID int64) ([]Track, error) {
	tracks, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]Track, 0)
	for _, track := range tracks {
		if track.HasContributor(artistID) {
			matches = append(matches, track)
		}
	}

	return matches, nil
}

func (r *trackRepository) SearchByTag(ctx context.Context, tag string) ([]Track, error) {
	tracks, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]Track, 0)
	for _, track := range tracks {
		if track.HasTag(tag) {
			matches = append(matches, track)
		}
	}

	return matches, nil
}

func (r *trackRepository) SearchByGenre(ctx context.Context, genre string) ([]Track, error) {
	log := r.log.Function("SearchByGenre")

	var tracks []Track
	if err := r.db.SQLWithContext(ctx).
		Where("genre = ?", genre).
		Order("id").
		Find(&tracks).Error; err != nil {
		return nil, log.Err("failed to search tracks by genre", err, "genre", genre)
	}

	return tracks, nil
}

func (r *trackRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.db.SQLWithContext(ctx).Model(&Track{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count tracks", err)
	}

	return count, nil
}
