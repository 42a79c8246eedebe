package client

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Board is the high-level client: transport plus synchronized cache.
// Reads serve cached values until invalidated; mutations apply
// optimistically and reconcile once the server answers.
type Board struct {
	transport *Transport
	cache     *Store
	userID    string
}

// NewBoard creates a Board talking to the API at baseURL as userID.
func NewBoard(baseURL, userID string) *Board {
	return &Board{
		transport: NewTransport(baseURL, userID),
		cache:     NewStore(),
		userID:    userID,
	}
}

// NewBoardWith wires a Board from existing pieces. Used by tests.
func NewBoardWith(t *Transport, cache *Store, userID string) *Board {
	return &Board{transport: t, cache: cache, userID: userID}
}

// Cache exposes the underlying store.
func (b *Board) Cache() *Store { return b.cache }

// Posts returns all loaded pages of the post list, fetching the first
// page when nothing is cached.
func (b *Board) Posts(ctx context.Context) ([]Post, error) {
	var pages []PostsPage
	err := b.cache.Read(ctx, PostsKey(), &pages, func(ctx context.Context) (any, error) {
		page, err := b.transport.ListPosts(ctx, "", 0)
		if err != nil {
			return nil, err
		}
		return []PostsPage{*page}, nil
	})
	if err != nil {
		return nil, err
	}
	return flatten(pages), nil
}

// LoadMore fetches the next page of the post list and appends it to the
// cache. It reports false when the list is already complete.
func (b *Board) LoadMore(ctx context.Context) (bool, error) {
	var pages []PostsPage
	if !b.cache.Get(PostsKey(), &pages) {
		_, err := b.Posts(ctx)
		return err == nil, err
	}
	if len(pages) == 0 || pages[len(pages)-1].NextCursor == nil {
		return false, nil
	}

	page, err := b.transport.ListPosts(ctx, *pages[len(pages)-1].NextCursor, 0)
	if err != nil {
		return false, err
	}
	pages = append(pages, *page)
	if err := b.cache.Put(PostsKey(), pages); err != nil {
		return false, err
	}
	return true, nil
}

// Post returns one post with derived counts.
func (b *Board) Post(ctx context.Context, id string) (*Post, error) {
	var post Post
	err := b.cache.Read(ctx, PostKey(id), &post, func(ctx context.Context) (any, error) {
		return b.transport.GetPost(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Comments returns a post's comments, oldest first.
func (b *Board) Comments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	err := b.cache.Read(ctx, CommentsKey(postID), &comments, func(ctx context.Context) (any, error) {
		return b.transport.ListComments(ctx, postID)
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CreatePost creates a post. A provisional copy with a temporary id is
// prepended to the cached list before the request settles; a failed
// request rolls the list back verbatim.
func (b *Board) CreatePost(ctx context.Context, in CreatePostInput) (*Post, error) {
	var created *Post
	err := b.cache.Mutate(ctx, []Key{PostsKey()},
		func() {
			b.withPages(func(pages *[]PostsPage) {
				provisional := Post{
					ID:            "temp-" + uuid.NewString(),
					Title:         in.Title,
					Content:       in.Content,
					DisplayAuthor: in.DisplayAuthor,
					AuthorID:      in.AuthorID,
					Tags:          in.Tags,
					IsAdmin:       in.IsAdmin,
					CreatedAt:     time.Now(),
					UpdatedAt:     time.Now(),
				}
				if provisional.DisplayAuthor == "" {
					provisional.DisplayAuthor = "Anonymous"
				}
				if provisional.Tags == nil {
					provisional.Tags = []string{}
				}
				if len(*pages) == 0 {
					*pages = []PostsPage{{Posts: []Post{provisional}}}
					return
				}
				first := &(*pages)[0]
				first.Posts = append([]Post{provisional}, first.Posts...)
			})
		},
		func(ctx context.Context) error {
			p, err := b.transport.CreatePost(ctx, in)
			created = p
			return err
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePost applies a partial update and drops affected cache entries.
func (b *Board) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (*Post, error) {
	post, err := b.transport.UpdatePost(ctx, id, in)
	if err != nil {
		return nil, err
	}
	b.cache.Invalidate(PostKey(id), PostsKey())
	return post, nil
}

// DeletePost removes a post and drops affected cache entries.
func (b *Board) DeletePost(ctx context.Context, id string) error {
	if err := b.transport.DeletePost(ctx, id); err != nil {
		return err
	}
	b.cache.Invalidate(PostKey(id), PostsKey(), CommentsKey(id))
	return nil
}

// CreateComment adds a comment. The provisional comment is appended to
// the cached comment list and comment_count is bumped on both the
// single-post entry and every list occurrence before the request
// settles.
func (b *Board) CreateComment(ctx context.Context, postID string, in CreateCommentInput) (*Comment, error) {
	keys := []Key{CommentsKey(postID), PostKey(postID), PostsKey()}

	var created *Comment
	err := b.cache.Mutate(ctx, keys,
		func() {
			provisional := Comment{
				ID:            "temp-" + uuid.NewString(),
				PostID:        postID,
				Content:       in.Content,
				DisplayAuthor: in.DisplayAuthor,
				AuthorID:      in.AuthorID,
				IsAdmin:       in.IsAdmin,
				CreatedAt:     time.Now(),
			}
			if provisional.DisplayAuthor == "" {
				provisional.DisplayAuthor = "Anonymous"
			}

			var comments []Comment
			if b.cache.Get(CommentsKey(postID), &comments) {
				comments = append(comments, provisional)
				b.cache.Put(CommentsKey(postID), comments)
			}

			b.withPost(postID, func(p *Post) {
				p.CommentCount++
			})
			b.withPages(func(pages *[]PostsPage) {
				forEachPost(pages, postID, func(p *Post) {
					p.CommentCount++
				})
			})
		},
		func(ctx context.Context) error {
			c, err := b.transport.CreateComment(ctx, postID, in)
			created = c
			return err
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteComment removes a comment and drops affected cache entries.
func (b *Board) DeleteComment(ctx context.Context, postID, commentID string) error {
	if err := b.transport.DeleteComment(ctx, postID, commentID); err != nil {
		return err
	}
	b.cache.Invalidate(CommentsKey(postID), PostKey(postID), PostsKey())
	return nil
}

// ToggleLike flips the caller's like on a post. The optimistic delta
// inverts liked_by_user and adjusts like_count by one in the single-post
// entry and every occurrence inside the cached list.
func (b *Board) ToggleLike(ctx context.Context, postID string) (*ToggleResult, error) {
	keys := []Key{PostKey(postID), PostsKey()}

	var result *ToggleResult
	err := b.cache.Mutate(ctx, keys,
		func() {
			b.withPost(postID, flipLike)
			b.withPages(func(pages *[]PostsPage) {
				forEachPost(pages, postID, flipLike)
			})
		},
		func(ctx context.Context) error {
			r, err := b.transport.ToggleLike(ctx, postID, b.userID)
			result = r
			return err
		})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func flipLike(p *Post) {
	if p.LikedByUser {
		p.LikedByUser = false
		p.LikeCount--
	} else {
		p.LikedByUser = true
		p.LikeCount++
	}
}

// withPages rewrites the cached page list in place; a cache miss is a
// no-op since there is nothing to show optimistically.
func (b *Board) withPages(mutate func(*[]PostsPage)) {
	var pages []PostsPage
	if !b.cache.Get(PostsKey(), &pages) {
		return
	}
	mutate(&pages)
	b.cache.Put(PostsKey(), pages)
}

func (b *Board) withPost(id string, mutate func(*Post)) {
	var post Post
	if !b.cache.Get(PostKey(id), &post) {
		return
	}
	mutate(&post)
	b.cache.Put(PostKey(id), post)
}

func forEachPost(pages *[]PostsPage, id string, mutate func(*Post)) {
	for i := range *pages {
		for j := range (*pages)[i].Posts {
			if (*pages)[i].Posts[j].ID == id {
				mutate(&(*pages)[i].Posts[j])
			}
		}
	}
}

func flatten(pages []PostsPage) []Post {
	var posts []Post
	for _, page := range pages {
		posts = append(posts, page.Posts...)
	}
	return posts
}
