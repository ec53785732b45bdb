package models

// Sequence backs id allocation: one row per entity kind, Next is the id the
// next insert will take. Counters start at 1 and are never rewound, so ids
// are never reused even after deletion.
type Sequence struct {
	Name string `gorm:"primaryKey;type:text" json:"name"`
	Next int64  `gorm:"not null"             json:"next"`
}

// Sequence names for the entity kinds that allocate ids.
const (
	SeqArtists        = "artists"
	SeqTracks         = "tracks"
	SeqCollabRequests = "collab_requests"
	SeqTasks          = "tasks"
	SeqActivities     = "activities"
)
