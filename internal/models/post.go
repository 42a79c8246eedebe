package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousAuthor is the display name used when a poster leaves the
// author field blank.
const AnonymousAuthor = "Anonymous"

// MaxContentLength is the server-side cap on post content.
const MaxContentLength = 1000

// Post is a board post. comment_count, like_count and liked_by_user are
// not persisted; they are computed per request from the comments and
// likes tables.
type Post struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"not null" json:"content"`
	DisplayAuthor string    `gorm:"not null" json:"display_author"`
	AuthorID      string    `gorm:"not null;index" json:"author_id"`
	Tags          []string  `gorm:"serializer:json" json:"tags"`
	IsAdmin       bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt     time.Time `gorm:"index:idx_posts_created_at,sort:desc" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	CommentCount int  `gorm:"-" json:"comment_count"`
	LikeCount    int  `gorm:"-" json:"like_count"`
	LikedByUser  bool `gorm:"-" json:"liked_by_user"`
}

// BeforeCreate assigns a UUID so the id scheme works on every backend,
// including the in-memory SQLite used in tests.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.DisplayAuthor == "" {
		p.DisplayAuthor = AnonymousAuthor
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}
