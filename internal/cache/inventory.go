package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix = "post:%s"
)

const (
	// PostTTL bounds how long an anonymous single-post read may be served
	// from Redis. Every mutation touching the post also invalidates it.
	PostTTL = 5 * time.Minute
)

// PostKey returns the cache key for a single post.
func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// Invalidate removes a key from Redis.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost removes the cached copy of a post.
func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
}
