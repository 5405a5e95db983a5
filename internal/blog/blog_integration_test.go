package blog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/go-pg/pg/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/blog/internal/db"
)

var testDB *pg.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = db.SetupTestDB()
	if err != nil {
		fmt.Fprintln(os.Stderr, "integration tests are skipped. Make sure PostgreSQL is running:")
		fmt.Fprintln(os.Stderr, "  docker-compose -f docker-compose.test.yml up -d")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		testDB = nil
	}

	code := m.Run()

	if testDB != nil {
		if err := testDB.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close database connection: %v\n", err)
		}
	}

	os.Exit(code)
}

func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withTx(t *testing.T) (context.Context, *Manager) {
	t.Helper()
	if testDB == nil {
		t.Skip("test database is not available")
	}
	ctx := context.Background()

	tx, err := testDB.Begin()
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("failed to rollback transaction: %v", err)
		}
	})

	return ctx, NewManager(db.New(tx), noOpLogger())
}

func intPtr(v int) *int {
	return &v
}

func TestManager_UpdateAuthorRating_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	author, err := manager.UpdateAuthorRating(ctx, 1)
	require.NoError(t, err)
	// (5+3)*3 + (4+0) + (2+0+1)
	assert.Equal(t, 31, author.Rating)
	assert.Equal(t, "user1", author.Username)

	again, err := manager.UpdateAuthorRating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, author.Rating, again.Rating)

	_, err = manager.UpdateAuthorRating(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_UpdateRatings_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	authors, err := manager.UpdateRatings(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	for _, a := range authors {
		assert.Equal(t, 31, a.Rating, "author %d", a.ID)
	}
}

func TestManager_NewAuthorRating_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	user, err := manager.CreateUser(ctx, "newcomer", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.PasswordHash)

	author, err := manager.CreateAuthor(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newcomer", author.Username)

	updated, err := manager.UpdateAuthorRating(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Rating)

	post, err := manager.CreatePost(ctx, PostInput{
		AuthorID:    author.ID,
		Type:        PostTypeNews,
		Title:       "Fresh news",
		Text:        "Body",
		CategoryIDs: []int{2, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, PostTypeNews, post.Type)
	assert.Equal(t, "newcomer", post.AuthorName)
	require.Len(t, post.Categories, 2)
	assert.Equal(t, "Culture", post.Categories[0].Name)
	assert.Equal(t, "Technology", post.Categories[1].Name)

	for i := 0; i < 5; i++ {
		_, err = manager.LikePost(ctx, post.ID)
		require.NoError(t, err)
	}

	comment, err := manager.CreateComment(ctx, CommentInput{PostID: post.ID, UserID: 1, Text: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, "user1", comment.Username)

	rating, err := manager.LikeComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rating)
	_, err = manager.LikeComment(ctx, comment.ID)
	require.NoError(t, err)

	updated, err = manager.UpdateAuthorRating(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 5*3+2, updated.Rating)
}

func TestManager_DeletePostExcludedFromRating_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	require.NoError(t, manager.DeletePost(ctx, 1))

	post, err := manager.Post(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, post)

	comments, err := manager.Comments(ctx, CommentFilter{PostID: intPtr(1)})
	require.NoError(t, err)
	assert.Empty(t, comments)

	author, err := manager.UpdateAuthorRating(ctx, 1)
	require.NoError(t, err)
	// post 3 only: 3*3 + own comment 2 (rating 4) + comment 4 (rating 1)
	assert.Equal(t, 14, author.Rating)
}

func TestManager_LikeDislike_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	rating, err := manager.LikePost(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, rating)

	rating, err = manager.DislikePost(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, rating)

	rating, err = manager.DislikeComment(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, -1, rating)

	post, err := manager.Post(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, post.Rating)

	_, err = manager.LikePost(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = manager.DislikeComment(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Posts_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	t.Run("BestPost", func(t *testing.T) {
		best, err := manager.BestPost(ctx)
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, 2, best.ID)
		assert.Equal(t, "user2", best.AuthorName)
		require.Len(t, best.Categories, 1)
		assert.Equal(t, "Technology", best.Categories[0].Name)
	})

	t.Run("ArticlesWithCategories", func(t *testing.T) {
		article := PostTypeArticle
		posts, err := manager.Posts(ctx, PostFilter{Type: &article})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, 3, posts[0].ID)
		assert.Equal(t, 1, posts[1].ID)
		require.Len(t, posts[1].Categories, 2)
		assert.Equal(t, "Politics", posts[1].Categories[0].Name)
	})

	t.Run("CategoryPosts", func(t *testing.T) {
		posts, err := manager.Posts(ctx, PostFilter{CategoryID: intPtr(1)})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, 1, posts[0].ID)
	})

	t.Run("ValidationErrors", func(t *testing.T) {
		_, err := manager.Posts(ctx, PostFilter{PageSize: -1})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = manager.CreatePost(ctx, PostInput{AuthorID: 1, Title: "", Text: "x"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestManager_PostCategories_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	post, err := manager.AddPostCategories(ctx, 1, []int{4})
	require.NoError(t, err)
	require.Len(t, post.Categories, 3)

	require.NoError(t, manager.RemovePostCategory(ctx, 1, 2))

	post, err = manager.Post(ctx, 1)
	require.NoError(t, err)
	names := make([]string, 0, len(post.Categories))
	for _, c := range post.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Culture", "Politics"}, names)

	_, err = manager.AddPostCategories(ctx, 999, []int{1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_TopAuthors_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	authors, err := manager.TopAuthors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "user2", authors[0].Username)
}

func TestManager_CreateCategory_Validation(t *testing.T) {
	manager := NewManager(nil, noOpLogger())

	_, err := manager.CreateCategory(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = manager.CreateUser(context.Background(), "name", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = manager.CreateComment(context.Background(), CommentInput{PostID: 1, UserID: 1})
	assert.ErrorIs(t, err, ErrValidation)
}
