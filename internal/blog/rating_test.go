package blog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/blog/internal/db"
)

// stubRatingStore is an in-memory RatingStore over plain rating lists.
type stubRatingStore struct {
	posts        map[int][]int // authorID -> post ratings
	comments     map[int][]int // userID -> ratings of comments written
	postComments map[int][]int // authorID -> ratings of comments on own posts

	sumErr   error
	writeErr error
	writes   map[int]int
}

func newStubRatingStore() *stubRatingStore {
	return &stubRatingStore{
		posts:        map[int][]int{},
		comments:     map[int][]int{},
		postComments: map[int][]int{},
		writes:       map[int]int{},
	}
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func (s *stubRatingStore) SumPostRatings(ctx context.Context, authorID int) (int, error) {
	if s.sumErr != nil {
		return 0, s.sumErr
	}
	return sum(s.posts[authorID]), nil
}

func (s *stubRatingStore) SumCommentRatings(ctx context.Context, userID int) (int, error) {
	return sum(s.comments[userID]), nil
}

func (s *stubRatingStore) SumCommentRatingsOnAuthorPosts(ctx context.Context, authorID int) (int, error) {
	return sum(s.postComments[authorID]), nil
}

func (s *stubRatingStore) UpdateAuthorRating(ctx context.Context, authorID, rating int) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes[authorID] = rating
	return nil
}

func TestRatingAggregator_UpdateRating(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		posts        []int
		comments     []int
		postComments []int
		expected     int
	}{
		{
			name:     "no posts and no comments",
			expected: 0,
		},
		{
			name:     "posts only are weighted three times",
			posts:    []int{5, 3},
			expected: 24,
		},
		{
			name:     "own comments without posts",
			comments: []int{2, 0},
			expected: 2,
		},
		{
			name:         "post with received comments",
			posts:        []int{5},
			postComments: []int{2, 0},
			expected:     17,
		},
		{
			name:         "all three sums",
			posts:        []int{5, 3},
			comments:     []int{4, 0},
			postComments: []int{2, 0, 1},
			expected:     31,
		},
		{
			name:     "negative ratings",
			posts:    []int{-2},
			comments: []int{-1},
			expected: -7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStubRatingStore()
			store.posts[1] = tt.posts
			store.comments[10] = tt.comments
			store.postComments[1] = tt.postComments

			author := &db.Author{ID: 1, UserID: 10, Rating: 99}
			err := NewRatingAggregator(store).UpdateRating(ctx, author)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, author.Rating)
			assert.Equal(t, map[int]int{1: tt.expected}, store.writes)
		})
	}
}

func TestRatingAggregator_UpdateRating_UsesUserForOwnComments(t *testing.T) {
	store := newStubRatingStore()
	store.comments[1] = []int{100}
	store.comments[10] = []int{2}

	author := &db.Author{ID: 1, UserID: 10}
	require.NoError(t, NewRatingAggregator(store).UpdateRating(context.Background(), author))

	assert.Equal(t, 2, author.Rating)
}

func TestRatingAggregator_UpdateRating_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newStubRatingStore()
	store.posts[1] = []int{5}
	store.postComments[1] = []int{2, 0}

	author := &db.Author{ID: 1, UserID: 10}
	aggregator := NewRatingAggregator(store)

	require.NoError(t, aggregator.UpdateRating(ctx, author))
	first := author.Rating
	require.NoError(t, aggregator.UpdateRating(ctx, author))

	assert.Equal(t, 17, first)
	assert.Equal(t, first, author.Rating)
	assert.Equal(t, first, store.writes[1])
}

func TestRatingAggregator_UpdateRating_Errors(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	t.Run("sum failure propagates without write", func(t *testing.T) {
		store := newStubRatingStore()
		store.sumErr = storeErr

		author := &db.Author{ID: 1, UserID: 10, Rating: 7}
		err := NewRatingAggregator(store).UpdateRating(ctx, author)

		require.ErrorIs(t, err, storeErr)
		assert.Equal(t, 7, author.Rating)
		assert.Empty(t, store.writes)
	})

	t.Run("write failure keeps previous rating", func(t *testing.T) {
		store := newStubRatingStore()
		store.posts[1] = []int{5}
		store.writeErr = storeErr

		author := &db.Author{ID: 1, UserID: 10, Rating: 7}
		err := NewRatingAggregator(store).UpdateRating(ctx, author)

		require.ErrorIs(t, err, storeErr)
		assert.Equal(t, 7, author.Rating)
	})
}
