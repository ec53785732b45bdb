package models

import (
	"gorm.io/datatypes"
)

type Artist struct {
	ID              int64                       `gorm:"primaryKey"         json:"id"`
	Name            string                      `gorm:"type:text;not null" json:"name"`
	Bio             string                      `gorm:"type:text"          json:"bio"`
	Social          *string                     `gorm:"type:text"          json:"social,omitempty"`
	RoyaltyBalance  int64                       `gorm:"not null;default:0" json:"royaltyBalance"`
	ProfileImageURL *string                     `gorm:"type:text"          json:"profileImageUrl,omitempty"`
	Links           datatypes.JSONSlice[string] `json:"links,omitempty"`
	CreatedAt       int64                       `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt       int64                       `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}
