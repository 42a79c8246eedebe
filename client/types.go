// Package client is a Go client for the board API. It layers a
// synchronized cache with optimistic mutations over a plain HTTP
// transport, so callers see immediate results while the server remains
// the source of truth.
package client

import "time"

// Post mirrors the API's post representation. The three count fields
// are derived server-side per request.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	DisplayAuthor string    `json:"display_author"`
	AuthorID      string    `json:"author_id"`
	Tags          []string  `json:"tags"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	CommentCount int  `json:"comment_count"`
	LikeCount    int  `json:"like_count"`
	LikedByUser  bool `json:"liked_by_user"`
}

// Comment mirrors the API's comment representation.
type Comment struct {
	ID            string    `json:"id"`
	PostID        string    `json:"post_id"`
	Content       string    `json:"content"`
	DisplayAuthor string    `json:"display_author"`
	AuthorID      string    `json:"author_id"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

// PostsPage is one page of the paginated post list. A nil NextCursor
// means the end of the list.
type PostsPage struct {
	Posts      []Post  `json:"posts"`
	NextCursor *string `json:"nextCursor"`
}

// ToggleResult is the server's answer to a like toggle.
type ToggleResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// CreatePostInput is the body of a create-post request.
type CreatePostInput struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	DisplayAuthor string   `json:"display_author"`
	AuthorID      string   `json:"author_id"`
	Tags          []string `json:"tags,omitempty"`
	IsAdmin       bool     `json:"is_admin,omitempty"`
}

// UpdatePostInput is the body of a partial post update. Nil fields are
// omitted from the request.
type UpdatePostInput struct {
	Title         *string   `json:"title,omitempty"`
	Content       *string   `json:"content,omitempty"`
	DisplayAuthor *string   `json:"display_author,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
}

// CreateCommentInput is the body of a create-comment request.
type CreateCommentInput struct {
	Content       string `json:"content"`
	DisplayAuthor string `json:"display_author"`
	AuthorID      string `json:"author_id"`
	IsAdmin       bool   `json:"is_admin,omitempty"`
}
