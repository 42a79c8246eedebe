// Package seed creates demo data for development databases. Not wired
// into the server; use cmd/seed.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"anonboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much data the seeder generates.
type Options struct {
	Posts          int
	MaxComments    int
	MaxLikes       int
	MaxDays        int
	VideoLinkRatio float64
}

// DefaultOptions returns a sensible development preset.
func DefaultOptions() Options {
	return Options{
		Posts:          40,
		MaxComments:    6,
		MaxLikes:       10,
		MaxDays:        30,
		VideoLinkRatio: 0.2,
	}
}

// Factory builds board entities with fake content and persists them.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

var seedVideoIDs = []string{"dQw4w9WgXcQ", "9bZkp7q19f0", "3JZ_D3ELwOQ", "L_jWHffIx5E", "kXYiU_JCYtU"}

// BuildPost constructs an unsaved post with a created_at spread over the
// configured window.
func (f *Factory) BuildPost() *models.Post {
	content := gofakeit.Paragraph(1, 3, 8, "\n")
	if f.rng.Float64() < f.opts.VideoLinkRatio {
		id := seedVideoIDs[f.rng.Intn(len(seedVideoIDs))]
		content = fmt.Sprintf("%s\nhttps://www.youtube.com/watch?v=%s", gofakeit.Sentence(6), id)
	}
	if len([]rune(content)) > models.MaxContentLength {
		content = string([]rune(content)[:models.MaxContentLength])
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.rng.Intn(maxDays*24*60)) * time.Minute

	post := &models.Post{
		Title:         gofakeit.Sentence(4),
		Content:       content,
		DisplayAuthor: f.displayAuthor(),
		AuthorID:      gofakeit.UUID(),
		Tags:          f.tags(),
		CreatedAt:     time.Now().Add(-back),
	}
	return post
}

func (f *Factory) displayAuthor() string {
	// Most posters stay anonymous.
	if f.rng.Float64() < 0.6 {
		return ""
	}
	return gofakeit.Username()
}

func (f *Factory) tags() []string {
	if f.rng.Float64() < 0.4 {
		return []string{}
	}
	return []string{models.TagOptions[f.rng.Intn(len(models.TagOptions))]}
}

// Run seeds the database: posts, each with a random number of comments
// and likes from synthetic users.
func (f *Factory) Run(ctx context.Context) error {
	for i := 0; i < f.opts.Posts; i++ {
		post := f.BuildPost()
		if err := f.db.WithContext(ctx).Create(post).Error; err != nil {
			return fmt.Errorf("seed post %d: %w", i, err)
		}

		for j := 0; j < f.rng.Intn(f.opts.MaxComments+1); j++ {
			comment := &models.Comment{
				PostID:        post.ID,
				Content:       gofakeit.Sentence(10),
				DisplayAuthor: f.displayAuthor(),
				AuthorID:      gofakeit.UUID(),
				CreatedAt:     post.CreatedAt.Add(time.Duration(j+1) * time.Minute),
			}
			if err := f.db.WithContext(ctx).Create(comment).Error; err != nil {
				return fmt.Errorf("seed comment on post %s: %w", post.ID, err)
			}
		}

		for k := 0; k < f.rng.Intn(f.opts.MaxLikes+1); k++ {
			like := &models.Like{PostID: post.ID, UserID: gofakeit.UUID()}
			if err := f.db.WithContext(ctx).Create(like).Error; err != nil {
				return fmt.Errorf("seed like on post %s: %w", post.ID, err)
			}
		}
	}
	return nil
}
