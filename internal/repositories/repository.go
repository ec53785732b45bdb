package repositories

import (
	"trackforge/internal/database"
)

type Repository struct {
	Sequence     SequenceRepository
	Artist       ArtistRepository
	Track        TrackRepository
	TrackVersion TrackVersionRepository
	CollabRequest CollabRequestRepository
	Task         TaskRepository
	Activity     ActivityRepository
}

func New(db database.DB) Repository {
	sequence := NewSequenceRepository(db)
	return Repository{
		Sequence:      sequence,
		Artist:        NewArtistRepository(db),
		Track:         NewTrackRepository(db),
		TrackVersion:  NewTrackVersionRepository(db),
		CollabRequest: NewCollabRequestRepository(db),
		Task:          NewTaskRepository(db),
		Activity:      NewActivityRepository(db, sequence),
	}
}
