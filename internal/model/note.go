package model

import (
	"time"
)

// Note is a user-owned note, optionally in to-do mode with a deadline.
//
// Invariant maintained by the toggle/clear operations: IsTodo=false implies
// Deadline=nil. The deadline scanner relies on the (is_todo, deadline) index
// to pick up active to-dos.
type Note struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:50;not null"`
	Description string     `json:"description" gorm:"size:150;not null"`
	Done        bool       `json:"done" gorm:"default:false"`
	IsTodo      bool       `json:"is_todo" gorm:"default:false;index:idx_notes_todo_deadline"`
	Deadline    *time.Time `json:"deadline,omitempty" gorm:"index:idx_notes_todo_deadline"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	User User  `json:"-" gorm:"foreignKey:UserID"`
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:note_tags"`
}
