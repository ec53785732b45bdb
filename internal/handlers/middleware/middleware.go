package middleware

import (
	"trackforge/config"
	"trackforge/internal/database"
	"trackforge/internal/events"
	"trackforge/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB         database.DB
	artistRepo repositories.ArtistRepository
	Config     config.Config
	log        logger.Logger
	eventBus   *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:         db,
		artistRepo: repos.Artist,
		Config:     config,
		log:        log,
		eventBus:   eventBus,
	}
}
