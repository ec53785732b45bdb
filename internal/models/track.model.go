package models

import (
	"gorm.io/datatypes"
)

type TrackVisibility string

const (
	VisibilityPublic     TrackVisibility = "public"
	VisibilityPrivate    TrackVisibility = "private"
	VisibilityInviteOnly TrackVisibility = "invite_only"
)

func (v TrackVisibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityInviteOnly:
		return true
	}
	return false
}

type TrackRole string

const (
	RoleOwner        TrackRole = "owner"
	RoleCollaborator TrackRole = "collaborator"
	RoleViewer       TrackRole = "viewer"
)

func (r TrackRole) Valid() bool {
	switch r {
	case RoleOwner, RoleCollaborator, RoleViewer:
		return true
	}
	return false
}

// Split is one artist's percentage share of a track's payments.
type Split struct {
	ArtistID int64 `json:"artistId"`
	Pct      int64 `json:"pct"`
}

type Comment struct {
	Commenter int64  `json:"commenter"`
	Text      string `json:"text"`
}

type Payment struct {
	Payer     int64 `json:"payer"`
	Amount    int64 `json:"amount"`
	Timestamp int64 `json:"timestamp"`
}

type RoleEntry struct {
	UserID int64     `json:"userId"`
	Role   TrackRole `json:"role"`
}

type RatingEntry struct {
	UserID int64 `json:"userId"`
	Rating int64 `json:"rating"`
}

// Track keeps its nested collections (contributors, splits, comments, payments,
// roles, ratings, tags, invites) inline as JSON columns: the track record is
// the unit of mutation, and every write rewrites the whole row under the store
// gate.
type Track struct {
	ID           int64                            `gorm:"primaryKey"         json:"id"`
	Title        string                           `gorm:"type:text;not null" json:"title"`
	Description  string                           `gorm:"type:text;not null" json:"description"`
	Contributors datatypes.JSONSlice[int64]       `json:"contributors"`
	Version      int64                            `gorm:"not null"           json:"version"`
	Splits       datatypes.JSONSlice[Split]       `json:"splits,omitempty"`
	Comments     datatypes.JSONSlice[Comment]     `json:"comments"`
	Payments     datatypes.JSONSlice[Payment]     `json:"payments"`
	Visibility   TrackVisibility                  `gorm:"type:text;not null" json:"visibility"`
	Invited      datatypes.JSONSlice[int64]       `json:"invited"`
	Roles        datatypes.JSONSlice[RoleEntry]   `json:"roles"`
	Ratings      datatypes.JSONSlice[RatingEntry] `json:"ratings"`
	Tags         datatypes.JSONSlice[string]      `json:"tags"`
	Genre        *string                          `gorm:"type:text"             json:"genre,omitempty"`
	PlayCount    int64                            `gorm:"not null;default:0"    json:"playCount"`
	Downloadable bool                             `gorm:"not null;default:false" json:"downloadable"`
	CreatedAt    int64                            `gorm:"autoCreateTime:milli"  json:"createdAt"`
	UpdatedAt    int64                            `gorm:"autoUpdateTime:milli"  json:"updatedAt"`
}

// AssignRole upserts the role entry for userID; a track never holds more than
// one role per user.
func (t *Track) AssignRole(userID int64, role TrackRole) {
	for i := range t.Roles {
		if t.Roles[i].UserID == userID {
			t.Roles[i].Role = role
			return
		}
	}
	t.Roles = append(t.Roles, RoleEntry{UserID: userID, Role: role})
}

func (t *Track) RoleOf(userID int64) (TrackRole, bool) {
	for _, entry := range t.Roles {
		if entry.UserID == userID {
			return entry.Role, true
		}
	}
	return "", false
}

// SetRating upserts the user's rating; rating the same track twice overwrites.
func (t *Track) SetRating(userID, rating int64) {
	for i := range t.Ratings {
		if t.Ratings[i].UserID == userID {
			t.Ratings[i].Rating = rating
			return
		}
	}
	t.Ratings = append(t.Ratings, RatingEntry{UserID: userID, Rating: rating})
}

func (t *Track) RatingOf(userID int64) (int64, bool) {
	for _, entry := range t.Ratings {
		if entry.UserID == userID {
			return entry.Rating, true
		}
	}
	return 0, false
}

// RatingSummary returns the rating count and the integer-truncated average.
func (t *Track) RatingSummary() (count, avg int64) {
	count = int64(len(t.Ratings))
	if count == 0 {
		return 0, 0
	}
	var sum int64
	for _, entry := range t.Ratings {
		sum += entry.Rating
	}
	return count, sum / count
}

// AddTag appends the tag unless already present (set semantics).
func (t *Track) AddTag(tag string) {
	for _, existing := range t.Tags {
		if existing == tag {
			return
		}
	}
	t.Tags = append(t.Tags, tag)
}

func (t *Track) RemoveTag(tag string) {
	kept := t.Tags[:0]
	for _, existing := range t.Tags {
		if existing != tag {
			kept = append(kept, existing)
		}
	}
	t.Tags = kept
}

func (t *Track) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Invite records the user as invited; inviting twice is a no-op.
func (t *Track) Invite(userID int64) {
	for _, existing := range t.Invited {
		if existing == userID {
			return
		}
	}
	t.Invited = append(t.Invited, userID)
}

func (t *Track) HasContributor(artistID int64) bool {
	for _, id := range t.Contributors {
		if id == artistID {
			return true
		}
	}
	return false
}

// TrackAnalytics is the derived read model combining revenue, engagement and
// rating aggregates for one track.
type TrackAnalytics struct {
	PlayCount     int64 `json:"playCount"`
	Revenue       int64 `json:"revenue"`
	CommentsCount int64 `json:"commentsCount"`
	RatingsCount  int64 `json:"ratingsCount"`
	AvgRating     int64 `json:"avgRating"`
}

// Analytics aggregates the track's payments, comments and ratings. Revenue is
// the sum of recorded payment amounts; the average rating truncates.
func (t *Track) Analytics() TrackAnalytics {
	var revenue int64
	for _, payment := range t.Payments {
		revenue += payment.Amount
	}
	count, avg := t.RatingSummary()
	return TrackAnalytics{
		PlayCount:     t.PlayCount,
		Revenue:       revenue,
		CommentsCount: int64(len(t.Comments)),
		RatingsCount:  count,
		AvgRating:     avg,
	}
}
