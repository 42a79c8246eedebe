package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like records that a user liked a post.
// The combination of PostID and UserID must be unique; the toggle
// endpoint enforces this with a check-then-act sequence, the index is
// the backstop against duplicate rows.
type Like struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID.
func (l *Like) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
