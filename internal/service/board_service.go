// Package service implements the board's application logic on top of the
// repository layer.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"anonboard/internal/cache"
	"anonboard/internal/models"
	"anonboard/internal/repository"

	"gorm.io/gorm"
)

const (
	// DefaultPageLimit is used when the caller does not specify a limit.
	DefaultPageLimit = 20
	// MaxPageLimit is the hard cap on a single page.
	MaxPageLimit = 100
)

// PostsPage is one page of the cursor-paginated post list. NextCursor is
// the created_at of the last retained row, or nil at the end of the list.
type PostsPage struct {
	Posts      []*models.Post `json:"posts"`
	NextCursor *string        `json:"nextCursor"`
}

// ToggleResult is the outcome of a like toggle.
type ToggleResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// Notifier is told about newly created posts. Implementations must not
// block the request path.
type Notifier interface {
	NotifyNewPost(post *models.Post)
}

// CreatePostInput carries a new post request.
type CreatePostInput struct {
	Title         string
	Content       string
	DisplayAuthor string
	AuthorID      string
	Tags          []string
	IsAdmin       bool
}

// UpdatePostInput carries a partial post update. Nil fields are left
// untouched.
type UpdatePostInput struct {
	Title         *string
	Content       *string
	DisplayAuthor *string
	Tags          *[]string
}

// CreateCommentInput carries a new comment request.
type CreateCommentInput struct {
	PostID        string
	Content       string
	DisplayAuthor string
	AuthorID      string
	IsAdmin       bool
}

// BoardService orchestrates posts, comments and likes.
type BoardService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	notifier    Notifier
}

// NewBoardService creates a BoardService. notifier may be nil.
func NewBoardService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, notifier Notifier) *BoardService {
	return &BoardService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
	}
}

// ClampLimit normalizes a requested page limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// ListPage assembles one page of posts: limit+1 rows from the
// repository, truncated to limit, enriched with the two batched count
// lookups and the per-user like membership check restricted to the ids
// on the page.
func (s *BoardService) ListPage(ctx context.Context, cursor *time.Time, limit int, userID string) (*PostsPage, error) {
	limit = ClampLimit(limit)

	posts, err := s.postRepo.ListPage(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	page := &PostsPage{Posts: posts}
	if hasMore {
		c := posts[len(posts)-1].CreatedAt.Format(time.RFC3339Nano)
		page.NextCursor = &c
	}

	if len(posts) == 0 {
		page.Posts = []*models.Post{}
		return page, nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	commentCounts, err := s.postRepo.CommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	likeCounts, err := s.postRepo.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	liked := map[string]bool{}
	if userID != "" {
		likedIDs, err := s.postRepo.LikedPostIDs(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	for _, p := range posts {
		p.CommentCount = commentCounts[p.ID]
		p.LikeCount = likeCounts[p.ID]
		p.LikedByUser = liked[p.ID]
	}

	return page, nil
}

// GetPost returns a single post with derived counts. Anonymous reads go
// through the Redis cache-aside path since they carry no per-user state.
func (s *BoardService) GetPost(ctx context.Context, id, userID string) (*models.Post, error) {
	if userID == "" {
		var post models.Post
		err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			p, err := s.loadPost(ctx, id, "")
			if err != nil {
				return err
			}
			post = *p
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &post, nil
	}
	return s.loadPost(ctx, id, userID)
}

func (s *BoardService) loadPost(ctx context.Context, id, userID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.CommentCount, err = s.commentRepo.CountByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.LikeCount, err = s.postRepo.CountLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != "" {
		post.LikedByUser, err = s.postRepo.IsLiked(ctx, id, userID)
		if err != nil {
			return nil, err
		}
	}

	return post, nil
}

// CreatePost validates and stores a new post, then dispatches the
// notification mail. The created post carries zero derived counts.
func (s *BoardService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" || in.AuthorID == "" {
		return nil, models.NewValidationError("title, content, and author_id are required")
	}
	if len([]rune(content)) > models.MaxContentLength {
		return nil, models.NewValidationError("content must be 1000 characters or less")
	}

	tags, bad := models.NormalizeTags(in.Tags)
	if bad != "" {
		return nil, models.NewValidationError("unknown tag: " + bad)
	}

	post := &models.Post{
		Title:         title,
		Content:       content,
		DisplayAuthor: strings.TrimSpace(in.DisplayAuthor),
		AuthorID:      in.AuthorID,
		Tags:          tags,
		IsAdmin:       in.IsAdmin,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	post.CommentCount = 0
	post.LikeCount = 0
	post.LikedByUser = false

	if s.notifier != nil {
		s.notifier.NotifyNewPost(post)
	}

	return post, nil
}

// UpdatePost applies a partial update and returns the updated row.
func (s *BoardService) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (*models.Post, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if len([]rune(content)) > models.MaxContentLength {
			return nil, models.NewValidationError("content must be 1000 characters or less")
		}
		updates["content"] = content
	}
	if in.DisplayAuthor != nil {
		author := strings.TrimSpace(*in.DisplayAuthor)
		if author == "" {
			author = models.AnonymousAuthor
		}
		updates["display_author"] = author
	}
	if in.Tags != nil {
		tags, bad := models.NormalizeTags(*in.Tags)
		if bad != "" {
			return nil, models.NewValidationError("unknown tag: " + bad)
		}
		// Map updates bypass the gorm serializer, so store the JSON form
		// the tags column actually holds.
		encoded, err := json.Marshal(tags)
		if err != nil {
			return nil, err
		}
		updates["tags"] = string(encoded)
	}

	post, err := s.postRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, id)
	return post, nil
}

// DeletePost hard-deletes a post with its comments and likes.
func (s *BoardService) DeletePost(ctx context.Context, id string) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// ListComments returns a post's comments in ascending time order.
func (s *BoardService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}

// CreateComment validates and stores a new comment.
func (s *BoardService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" || in.AuthorID == "" {
		return nil, models.NewValidationError("content and author_id are required")
	}

	comment := &models.Comment{
		PostID:        in.PostID,
		Content:       content,
		DisplayAuthor: strings.TrimSpace(in.DisplayAuthor),
		AuthorID:      in.AuthorID,
		IsAdmin:       in.IsAdmin,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, in.PostID)
	return comment, nil
}

// DeleteComment removes a comment.
func (s *BoardService) DeleteComment(ctx context.Context, postID, commentID string) error {
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// ToggleLike flips the like state for (postID, userID) and returns the
// fresh count. This is a deliberate check-then-act sequence, not an
// atomic upsert: two concurrent toggles from the same user can race.
// The unique index on (post_id, user_id) caps the damage at a failed
// insert rather than a duplicate row.
func (s *BoardService) ToggleLike(ctx context.Context, postID, userID string) (*ToggleResult, error) {
	existing, err := s.postRepo.GetLike(ctx, postID, userID)
	switch {
	case err == nil:
		if derr := s.postRepo.DeleteLike(ctx, existing.ID); derr != nil {
			return nil, derr
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if ierr := s.postRepo.InsertLike(ctx, postID, userID); ierr != nil {
			return nil, ierr
		}
	default:
		return nil, err
	}

	count, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, postID)
	return &ToggleResult{Liked: existing == nil, LikeCount: count}, nil
}
