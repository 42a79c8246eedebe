package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// UserIDHeader carries the client-generated pseudo-identity token. The
// server never verifies it.
const UserIDHeader = "x-user-id"

// Transport issues the HTTP calls behind every board operation. Failures
// surface as a single error carrying the server's message; there are no
// retries.
type Transport struct {
	baseURL string
	userID  string
	http    *http.Client
}

// NewTransport creates a Transport for the API at baseURL (e.g.
// "http://localhost:8460/api"). userID may be empty for anonymous use.
func NewTransport(baseURL, userID string) *Transport {
	return &Transport{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the server's {"error": "..."} envelope.
type apiError struct {
	Error string `json:"error"`
}

func (t *Transport) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.userID != "" {
		req.Header.Set(UserIDHeader, t.userID)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if derr := json.NewDecoder(resp.Body).Decode(&apiErr); derr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ListPosts fetches one page of posts. cursor may be empty for the first
// page; limit <= 0 uses the server default.
func (t *Transport) ListPosts(ctx context.Context, cursor string, limit int) (*PostsPage, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page PostsPage
	if err := t.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPost fetches a single post with derived counts.
func (t *Transport) GetPost(ctx context.Context, id string) (*Post, error) {
	var post Post
	if err := t.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost creates a new post.
func (t *Transport) CreatePost(ctx context.Context, in CreatePostInput) (*Post, error) {
	var post Post
	if err := t.do(ctx, http.MethodPost, "/posts", in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost applies a partial update.
func (t *Transport) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (*Post, error) {
	var post Post
	if err := t.do(ctx, http.MethodPatch, "/posts/"+url.PathEscape(id), in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (t *Transport) DeletePost(ctx context.Context, id string) error {
	return t.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil)
}

// ListComments fetches a post's comments, oldest first.
func (t *Transport) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	if err := t.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID)+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment adds a comment to a post.
func (t *Transport) CreateComment(ctx context.Context, postID string, in CreateCommentInput) (*Comment, error) {
	var comment Comment
	if err := t.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/comments", in, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment from a post.
func (t *Transport) DeleteComment(ctx context.Context, postID, commentID string) error {
	path := "/posts/" + url.PathEscape(postID) + "/comments?commentId=" + url.QueryEscape(commentID)
	return t.do(ctx, http.MethodDelete, path, nil, nil)
}

// ToggleLike flips the caller's like on a post.
func (t *Transport) ToggleLike(ctx context.Context, postID, userID string) (*ToggleResult, error) {
	body := map[string]string{"user_id": userID}
	var result ToggleResult
	if err := t.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/likes", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
