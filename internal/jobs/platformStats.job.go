package jobs

import (
	"context"
	"trackforge/internal/repositories"
	"trackforge/internal/services"
	"trackforge/pkg/logger"
)

// PlatformStatsJob periodically logs entity counts so operators can watch
// platform growth without querying the store by hand.
type PlatformStatsJob struct {
	repos    repositories.Repository
	schedule services.Schedule
	log      logger.Logger
}

func NewPlatformStatsJob(repos repositories.Repository, schedule services.Schedule) *PlatformStatsJob {
	return &PlatformStatsJob{
		repos:    repos,
		schedule: schedule,
		log:      logger.New("platformStatsJob"),
	}
}

func (j *PlatformStatsJob) Name() string {
	return "platform-stats"
}

func (j *PlatformStatsJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *PlatformStatsJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	artists, err := j.repos.Artist.Count(ctx)
	if err != nil {
		return err
	}
	tracks, err := j.repos.Track.Count(ctx)
	if err != nil {
		return err
	}
	collabs, err := j.repos.CollabRequest.Count(ctx)
	if err != nil {
		return err
	}
	tasks, err := j.repos.Task.Count(ctx)
	if err != nil {
		return err
	}
	activities, err := j.repos.Activity.Count(ctx)
	if err != nil {
		return err
	}

	log.Info("Platform stats",
		"artists", artists,
		"tracks", tracks,
		"collabRequests", collabs,
		"tasks", tasks,
		"activities", activities,
	)

	return nil
}
