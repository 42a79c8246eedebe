// Package models contains data structures for the board's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a comment on a post. Comments are insert-only: they are
// never edited, only created and hard-deleted.
type Comment struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID        string    `gorm:"not null;index" json:"post_id"`
	Content       string    `gorm:"not null" json:"content"`
	DisplayAuthor string    `gorm:"not null" json:"display_author"`
	AuthorID      string    `gorm:"not null" json:"author_id"`
	IsAdmin       bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns a UUID and the anonymous author fallback.
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.DisplayAuthor == "" {
		c.DisplayAuthor = AnonymousAuthor
	}
	return nil
}
