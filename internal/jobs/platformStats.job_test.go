package jobs

import (
	"context"
	"testing"
	"trackforge/internal/database"
	"trackforge/internal/models"
	"trackforge/internal/repositories"
	"trackforge/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformStatsJob(t *testing.T) {
	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repositories.New(db)
	job := NewPlatformStatsJob(repos, services.Hourly)

	assert.Equal(t, "platform-stats", job.Name())
	assert.Equal(t, services.Hourly, job.Schedule())

	require.NoError(t, job.Execute(context.Background()))

	require.NoError(t, db.SQL.Create(&models.Artist{ID: 1, Name: "A"}).Error)
	require.NoError(t, job.Execute(context.Background()))
}
