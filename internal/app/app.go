package app

import (
	"context"
	"trackforge/config"
	"trackforge/internal/database"
	"trackforge/internal/events"
	"trackforge/internal/handlers/middleware"
	"trackforge/internal/jobs"
	"trackforge/internal/repositories"
	"trackforge/internal/services"
	"trackforge/internal/websockets"
	"trackforge/pkg/logger"

	activityController "trackforge/internal/controllers/activity"
	artistController "trackforge/internal/controllers/artists"
	collabController "trackforge/internal/controllers/collabs"
	taskController "trackforge/internal/controllers/tasks"
	trackController "trackforge/internal/controllers/tracks"
)

type Controllers struct {
	Artist   artistController.ArtistControllerInterface
	Track    trackController.TrackControllerInterface
	Collab   collabController.CollabControllerInterface
	Task     taskController.TaskControllerInterface
	Activity activityController.ActivityControllerInterface
}

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Repository  repositories.Repository
	Services    services.Service
	Controllers Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	svcs := services.New(db)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos)

	controllers := Controllers{
		Artist:   artistController.New(repos, svcs, config, db, eventBus),
		Track:    trackController.New(repos, svcs, config, db, eventBus),
		Collab:   collabController.New(repos, svcs, config, db),
		Task:     taskController.New(repos, svcs, config, db),
		Activity: activityController.New(repos, svcs, config, db),
	}

	if config.SchedulerEnabled {
		statsJob := jobs.NewPlatformStatsJob(repos, services.Hourly)
		if err := svcs.Scheduler.AddJob(statsJob); err != nil {
			return &App{}, log.Err("failed to register platform stats job", err)
		}
		log.Info("Registered platform stats job with scheduler")
	}

	app := &App{
		Database:    db,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Repository:  repos,
		Services:    svcs,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Controllers.Artist,
		a.Controllers.Track,
		a.Controllers.Collab,
		a.Controllers.Task,
		a.Controllers.Activity,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) StartScheduler(ctx context.Context) error {
	return a.Services.Scheduler.Start(ctx)
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
