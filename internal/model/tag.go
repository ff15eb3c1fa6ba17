package model

import (
	"time"
)

// Tag is a per-user label for notes. (name, user_id) is unique at the
// database layer; duplicate inserts surface through gorm error translation.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:25;not null;uniqueIndex:uk_tags_name_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uk_tags_name_user;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}
