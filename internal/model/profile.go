package model

import (
	"time"
)

// DefaultAvatar is the avatar path assigned to freshly created profiles.
const DefaultAvatar = "avatars/default_avatar.jpg"

// Profile carries per-user presentation data and the confirmation flag.
// A profile is created together with its user; unconfirmed users cannot
// create tags or notes.
type Profile struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	Avatar      string    `json:"avatar" gorm:"size:255;not null;default:'avatars/default_avatar.jpg'"`
	Bio         string    `json:"bio" gorm:"size:500"`
	IsConfirmed bool      `json:"is_confirmed" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
