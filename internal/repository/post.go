// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"anonboard/internal/models"
	"anonboard/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ListPage returns up to limit+1 posts ordered by created_at
	// descending, optionally restricted to created_at < cursor. The
	// extra row lets the caller detect a next page without a count query.
	ListPage(ctx context.Context, cursor *time.Time, limit int) ([]*models.Post, error)
	Update(ctx context.Context, id string, updates map[string]any) (*models.Post, error)
	Delete(ctx context.Context, id string) error

	CommentCounts(ctx context.Context, postIDs []string) (map[string]int, error)
	LikeCounts(ctx context.Context, postIDs []string) (map[string]int, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error)

	GetLike(ctx context.Context, postID, userID string) (*models.Like, error)
	InsertLike(ctx context.Context, postID, userID string) error
	DeleteLike(ctx context.Context, likeID string) error
	CountLikes(ctx context.Context, postID string) (int, error)
	IsLiked(ctx context.Context, postID, userID string) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer observability.TrackQuery("read", "posts")()
	var post models.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListPage(ctx context.Context, cursor *time.Time, limit int) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()
	var posts []*models.Post
	q := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit + 1)
	if cursor != nil {
		q = q.Where("created_at < ?", *cursor)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, id string, updates map[string]any) (*models.Post, error) {
	defer observability.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete", "posts")()
	// Comments and likes go with the post; a hard delete, not a tombstone.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Post{}).Error
	})
}

// postCount is the row shape of the batched GROUP BY count queries.
type postCount struct {
	PostID string `gorm:"column:post_id"`
	Count  int    `gorm:"column:count"`
}

func (r *postRepository) CommentCounts(ctx context.Context, postIDs []string) (map[string]int, error) {
	defer observability.TrackQuery("count", "comments")()
	var rows []postCount
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countMap(rows), nil
}

func (r *postRepository) LikeCounts(ctx context.Context, postIDs []string) (map[string]int, error) {
	defer observability.TrackQuery("count", "likes")()
	var rows []postCount
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countMap(rows), nil
}

func countMap(rows []postCount) map[string]int {
	m := make(map[string]int, len(rows))
	for _, row := range rows {
		m[row.PostID] = row.Count
	}
	return m
}

func (r *postRepository) LikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error) {
	defer observability.TrackQuery("read", "likes")()
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	return ids, err
}

func (r *postRepository) GetLike(ctx context.Context, postID, userID string) (*models.Like, error) {
	defer observability.TrackQuery("read", "likes")()
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *postRepository) InsertLike(ctx context.Context, postID, userID string) error {
	defer observability.TrackQuery("create", "likes")()
	return r.db.WithContext(ctx).Create(&models.Like{PostID: postID, UserID: userID}).Error
}

func (r *postRepository) DeleteLike(ctx context.Context, likeID string) error {
	defer observability.TrackQuery("delete", "likes")()
	return r.db.WithContext(ctx).Where("id = ?", likeID).Delete(&models.Like{}).Error
}

func (r *postRepository) CountLikes(ctx context.Context, postID string) (int, error) {
	defer observability.TrackQuery("count", "likes")()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return int(count), err
}

func (r *postRepository) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	defer observability.TrackQuery("read", "likes")()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}
