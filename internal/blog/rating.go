package blog

import (
	"context"
	"fmt"

	"github.com/daniilsolovey/blog/internal/db"
)

// postRatingWeight multiplies the author's own post ratings.
const postRatingWeight = 3

// RatingStore provides the sums an author rating is built from and persists
// the result. Every sum is 0 when no rows match.
type RatingStore interface {
	SumPostRatings(ctx context.Context, authorID int) (int, error)
	SumCommentRatings(ctx context.Context, userID int) (int, error)
	SumCommentRatingsOnAuthorPosts(ctx context.Context, authorID int) (int, error)
	UpdateAuthorRating(ctx context.Context, authorID, rating int) error
}

var _ RatingStore = (*db.Repository)(nil)

type RatingAggregator struct {
	store RatingStore
}

func NewRatingAggregator(store RatingStore) *RatingAggregator {
	return &RatingAggregator{store: store}
}

// UpdateRating recomputes author.Rating as
//
//	3 * sum(post ratings) + sum(ratings of comments written by the author's user)
//	  + sum(ratings of comments on the author's posts)
//
// and persists it. On error author keeps its previous rating.
func (a *RatingAggregator) UpdateRating(ctx context.Context, author *db.Author) error {
	postRating, err := a.store.SumPostRatings(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("sum post ratings: %w", err)
	}

	commentRating, err := a.store.SumCommentRatings(ctx, author.UserID)
	if err != nil {
		return fmt.Errorf("sum comment ratings: %w", err)
	}

	postCommentRating, err := a.store.SumCommentRatingsOnAuthorPosts(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("sum post comment ratings: %w", err)
	}

	rating := postRating*postRatingWeight + commentRating + postCommentRating
	if err := a.store.UpdateAuthorRating(ctx, author.ID, rating); err != nil {
		return fmt.Errorf("persist author rating: %w", err)
	}

	author.Rating = rating
	return nil
}
