package models

type CollabRequestStatus string

const (
	CollabPending  CollabRequestStatus = "pending"
	CollabAccepted CollabRequestStatus = "accepted"
	CollabDeclined CollabRequestStatus = "declined"
)

// CollabRequest is a negotiation between two artists scoped to a track.
// Pending is the only state that can transition; accepted/declined are
// terminal.
type CollabRequest struct {
	ID        int64               `gorm:"primaryKey"           json:"id"`
	FromID    int64               `gorm:"not null;index"       json:"from"`
	ToID      int64               `gorm:"not null;index"       json:"to"`
	TrackID   int64               `gorm:"not null"             json:"trackId"`
	Message   *string             `gorm:"type:text"            json:"message,omitempty"`
	Status    CollabRequestStatus `gorm:"type:text;not null"   json:"status"`
	Timestamp int64               `gorm:"not null"             json:"timestamp"`
}

func (r *CollabRequest) IsPending() bool {
	return r.Status == CollabPending
}
