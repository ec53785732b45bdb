package models

import (
	"gorm.io/datatypes"
)

// TrackVersion is an immutable snapshot of a track's editable fields, appended
// once at creation and again on every add-version call. Keyed by (track,
// version); rows are never updated.
type TrackVersion struct {
	TrackID      int64                      `gorm:"primaryKey" json:"trackId"`
	Version      int64                      `gorm:"primaryKey" json:"version"`
	Title        string                     `gorm:"type:text;not null" json:"title"`
	Description  string                     `gorm:"type:text;not null" json:"description"`
	Contributors datatypes.JSONSlice[int64] `json:"contributors"`
	CreatedAt    int64                      `gorm:"autoCreateTime:milli" json:"createdAt"`
}
