package model

import (
	"time"
)

// User is an account owner. Every tag and note is scoped to exactly one user.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Tags    []Tag   `json:"-" gorm:"foreignKey:UserID"`
	Notes   []Note  `json:"-" gorm:"foreignKey:UserID"`
}
