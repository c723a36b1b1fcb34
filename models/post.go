package models

import "time"

// Post represents a discussion thread created by a user on one of the boards.
type Post struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"index;not null" json:"user_id"`
	Title     string       `gorm:"size:255;not null" json:"title"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	Board     string       `gorm:"size:32;default:'general';index" json:"board"`
	Votes     VoteCounters `gorm:"embedded" json:"votes"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
