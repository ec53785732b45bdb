package database

import (
	"trackforge/internal/models"
	"trackforge/pkg/logger"
)

// MigrateModels runs GORM AutoMigrate for all models.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.Sequence{},
		&models.Artist{},
		&models.Track{},
		&models.TrackVersion{},
		&models.CollabRequest{},
		&models.Task{},
		&models.Activity{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}
