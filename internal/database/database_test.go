package database

import (
	"testing"
	"trackforge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, EVENTS_CACHE_INDEX)
}

func TestNewMemory(t *testing.T) {
	db, err := NewMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.NotNil(t, db.SQL)
	assert.NotNil(t, db.Gate)
	assert.Nil(t, db.Cache.General)
	assert.Nil(t, db.Cache.Events)

	// Migrated schema accepts the core entities
	artist := models.Artist{ID: 1, Name: "Test Artist"}
	require.NoError(t, db.SQL.Create(&artist).Error)

	var loaded models.Artist
	require.NoError(t, db.SQL.First(&loaded, "id = ?", int64(1)).Error)
	assert.Equal(t, "Test Artist", loaded.Name)
	assert.Equal(t, int64(0), loaded.RoyaltyBalance)
}

func TestNewMemory_TrackJSONColumnsRoundTrip(t *testing.T) {
	db, err := NewMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	track := models.Track{
		ID:           1,
		Title:        "Song",
		Description:  "Desc",
		Contributors: []int64{1, 2},
		Version:      1,
		Visibility:   models.VisibilityPublic,
		Roles: []models.RoleEntry{
			{UserID: 1, Role: models.RoleOwner},
			{UserID: 2, Role: models.RoleOwner},
		},
		Splits: []models.Split{{ArtistID: 1, Pct: 70}, {ArtistID: 2, Pct: 30}},
		Tags:   []string{"lofi"},
	}
	require.NoError(t, db.SQL.Create(&track).Error)

	var loaded models.Track
	require.NoError(t, db.SQL.First(&loaded, "id = ?", int64(1)).Error)

	assert.Equal(t, []int64{1, 2}, []int64(loaded.Contributors))
	assert.Len(t, loaded.Roles, 2)
	assert.Equal(t, models.RoleOwner, loaded.Roles[0].Role)
	assert.Equal(t, int64(70), loaded.Splits[0].Pct)
	assert.Equal(t, []string{"lofi"}, []string(loaded.Tags))
	assert.Empty(t, loaded.Payments)
	assert.Empty(t, loaded.Comments)
}

func TestTXDefer_CommitsOnSuccess(t *testing.T) {
	db, err := NewMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	tx := db.SQL.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, tx.Create(&models.Artist{ID: 7, Name: "Committed"}).Error)
	TXDefer(tx, db.log)

	var count int64
	require.NoError(t, db.SQL.Model(&models.Artist{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
