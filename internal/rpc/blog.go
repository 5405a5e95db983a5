package rpc

import (
	"context"
	"errors"

	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/blog/internal/blog"
)

//go:generate zenrpc

// BlogService provides RPC methods for ratings and post listing.
type BlogService struct {
	zenrpc.Service
	manager *blog.Manager
}

func NewBlogService(manager *blog.Manager) *BlogService {
	return &BlogService{manager: manager}
}

func serviceError(err error) error {
	switch {
	case errors.Is(err, blog.ErrValidation):
		return zenrpc.NewStringError(400, err.Error())
	case errors.Is(err, blog.ErrNotFound):
		return zenrpc.NewStringError(404, "not found")
	}
	return err
}

func (s BlogService) rate(ctx context.Context, id int, fn func(context.Context, int) (int, error)) (int, error) {
	if id <= 0 {
		return 0, zenrpc.NewStringError(400, "id must be positive")
	}

	rating, err := fn(ctx, id)
	if err != nil {
		return 0, serviceError(err)
	}

	return rating, nil
}

// LikePost increments post rating.
//
//zenrpc:id post numeric ID
//zenrpc:return new post rating
//zenrpc:400 id must be positive
//zenrpc:404 post not found
//zenrpc:500 internal server error
func (s BlogService) LikePost(ctx context.Context, id int) (int, error) {
	return s.rate(ctx, id, s.manager.LikePost)
}

// DislikePost decrements post rating.
//
//zenrpc:id post numeric ID
//zenrpc:return new post rating
//zenrpc:400 id must be positive
//zenrpc:404 post not found
//zenrpc:500 internal server error
func (s BlogService) DislikePost(ctx context.Context, id int) (int, error) {
	return s.rate(ctx, id, s.manager.DislikePost)
}

// LikeComment increments comment rating.
//
//zenrpc:id comment numeric ID
//zenrpc:return new comment rating
//zenrpc:400 id must be positive
//zenrpc:404 comment not found
//zenrpc:500 internal server error
func (s BlogService) LikeComment(ctx context.Context, id int) (int, error) {
	return s.rate(ctx, id, s.manager.LikeComment)
}

// DislikeComment decrements comment rating.
//
//zenrpc:id comment numeric ID
//zenrpc:return new comment rating
//zenrpc:400 id must be positive
//zenrpc:404 comment not found
//zenrpc:500 internal server error
func (s BlogService) DislikeComment(ctx context.Context, id int) (int, error) {
	return s.rate(ctx, id, s.manager.DislikeComment)
}

// UpdateRating recomputes author rating from posts and comments.
//
//zenrpc:authorId author numeric ID
//zenrpc:return author with the new rating
//zenrpc:400 id must be positive
//zenrpc:404 author not found
//zenrpc:500 internal server error
func (s BlogService) UpdateRating(ctx context.Context, authorID int) (*Author, error) {
	if authorID <= 0 {
		return nil, zenrpc.NewStringError(400, "id must be positive")
	}

	author, err := s.manager.UpdateAuthorRating(ctx, authorID)
	if err != nil {
		return nil, serviceError(err)
	}

	result := NewAuthor(*author)
	return &result, nil
}

// BestPost returns the highest rated post with full text.
//
//zenrpc:return best post
//zenrpc:404 post not found
//zenrpc:500 internal server error
func (s BlogService) BestPost(ctx context.Context) (*Post, error) {
	post, err := s.manager.BestPost(ctx)
	if err != nil {
		return nil, serviceError(err)
	}

	if post == nil {
		return nil, zenrpc.NewStringError(404, "post not found")
	}

	result := NewPost(*post)
	return &result, nil
}

// Posts retrieves post summaries, newest first unless sortByRating is set.
//
//zenrpc:filter post filter
//zenrpc:return list of post summaries
//zenrpc:400 invalid filter
//zenrpc:500 internal server error
func (s BlogService) Posts(ctx context.Context, filter PostFilter) ([]PostSummary, error) {
	f, err := filter.ToModel()
	if err != nil {
		return nil, serviceError(err)
	}

	posts, err := s.manager.Posts(ctx, f)
	if err != nil {
		return nil, serviceError(err)
	}

	return NewPostSummaries(posts), nil
}
