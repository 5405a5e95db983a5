package db

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/go-pg/pg/v10"
)

var testDB *pg.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = SetupTestDB()
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

func postIDs(posts []Post) []int {
	ids := make([]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	return ids
}

func commentIDs(comments []Comment) []int {
	ids := make([]int, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	return ids
}

func categoryNames(links []PostCategory) []string {
	names := make([]string, 0, len(links))
	for _, l := range links {
		if l.Category != nil {
			names = append(names, l.Category.Name)
		}
	}
	return names
}

func assertInts(t *testing.T, what string, got, want []int) {
	t.Helper()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("%s: expected %v, got %v", what, want, got)
	}
}

func TestRatingSums_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	t.Run("AuthorWithData", func(t *testing.T) {
		posts, err := repo.SumPostRatings(ctx, 1)
		if err != nil {
			t.Fatalf("SumPostRatings failed: %v", err)
		}
		if posts != 8 {
			t.Errorf("expected post rating sum 8, got %d", posts)
		}

		comments, err := repo.SumCommentRatings(ctx, 1)
		if err != nil {
			t.Fatalf("SumCommentRatings failed: %v", err)
		}
		if comments != 4 {
			t.Errorf("expected comment rating sum 4, got %d", comments)
		}

		received, err := repo.SumCommentRatingsOnAuthorPosts(ctx, 1)
		if err != nil {
			t.Fatalf("SumCommentRatingsOnAuthorPosts failed: %v", err)
		}
		if received != 3 {
			t.Errorf("expected received comment rating sum 3, got %d", received)
		}
	})

	t.Run("AuthorWithoutDataDefaultsToZero", func(t *testing.T) {
		user := &User{Username: "lonely", PasswordHash: "x"}
		if err := repo.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		author := &Author{UserID: user.ID}
		if err := repo.CreateAuthor(ctx, author); err != nil {
			t.Fatalf("CreateAuthor failed: %v", err)
		}

		sums := []func() (int, error){
			func() (int, error) { return repo.SumPostRatings(ctx, author.ID) },
			func() (int, error) { return repo.SumCommentRatings(ctx, user.ID) },
			func() (int, error) { return repo.SumCommentRatingsOnAuthorPosts(ctx, author.ID) },
		}
		for i, sum := range sums {
			v, err := sum()
			if err != nil {
				t.Fatalf("sum %d failed: %v", i, err)
			}
			if v != 0 {
				t.Errorf("sum %d: expected 0, got %d", i, v)
			}
		}
	})
}

func TestAuthors_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	t.Run("ByIDLoadsUser", func(t *testing.T) {
		author, err := repo.AuthorByID(ctx, 1)
		if err != nil {
			t.Fatalf("AuthorByID failed: %v", err)
		}
		if author == nil || author.User == nil {
			t.Fatalf("expected author with user, got %+v", author)
		}
		if author.User.Username != "user1" {
			t.Errorf("expected username user1, got %q", author.User.Username)
		}
	})

	t.Run("NotFoundReturnsNil", func(t *testing.T) {
		author, err := repo.AuthorByID(ctx, 999)
		if err != nil {
			t.Fatalf("AuthorByID failed: %v", err)
		}
		if author != nil {
			t.Errorf("expected nil author, got %+v", author)
		}
	})

	t.Run("UpdateRatingPersists", func(t *testing.T) {
		if err := repo.UpdateAuthorRating(ctx, 2, 42); err != nil {
			t.Fatalf("UpdateAuthorRating failed: %v", err)
		}
		author, err := repo.AuthorForUpdate(ctx, 2)
		if err != nil {
			t.Fatalf("AuthorForUpdate failed: %v", err)
		}
		if author.Rating != 42 {
			t.Errorf("expected rating 42, got %d", author.Rating)
		}
	})

	t.Run("UpdateRatingUnknownAuthor", func(t *testing.T) {
		err := repo.UpdateAuthorRating(ctx, 999, 1)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("TopAuthors", func(t *testing.T) {
		authors, err := repo.TopAuthors(ctx, 5)
		if err != nil {
			t.Fatalf("TopAuthors failed: %v", err)
		}
		if len(authors) != 1 || authors[0].ID != 2 {
			t.Errorf("expected only author 2, got %+v", authors)
		}

		authors, err = repo.TopAuthors(ctx, 0)
		if err != nil {
			t.Fatalf("TopAuthors failed: %v", err)
		}
		if len(authors) != 2 {
			t.Errorf("expected 2 distinct authors, got %d", len(authors))
		}
	})
}

func TestCreateAuthor_DuplicateUser_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	err := repo.CreateAuthor(ctx, &Author{UserID: 1})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateCategory_Duplicate_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	err := repo.CreateCategory(ctx, &Category{Name: "Sports"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreatePost_UnknownAuthor_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	err := repo.CreatePost(ctx, &Post{AuthorID: 999, Title: "t", Text: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPosts_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	tests := []struct {
		name   string
		filter PostFilter
		want   []int
	}{
		{name: "AllNewestFirst", filter: PostFilter{}, want: []int{3, 2, 1}},
		{name: "ByAuthor", filter: PostFilter{AuthorID: intPtr(1)}, want: []int{3, 1}},
		{name: "Articles", filter: PostFilter{PostType: strPtr(PostTypeArticle)}, want: []int{3, 1}},
		{name: "News", filter: PostFilter{PostType: strPtr(PostTypeNews)}, want: []int{2}},
		{name: "RatingAboveFive", filter: PostFilter{MinRating: intPtr(5)}, want: []int{2}},
		{name: "ByCategoryID", filter: PostFilter{CategoryID: intPtr(3)}, want: []int{3}},
		{name: "ByCategoryName", filter: PostFilter{CategoryName: strPtr("Technology")}, want: []int{2, 1}},
		{name: "ByRating", filter: PostFilter{OrderByRating: true}, want: []int{2, 1, 3}},
		{name: "ByRatingPaged", filter: PostFilter{OrderByRating: true, Limit: 1, Offset: 1}, want: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.Posts(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Posts failed: %v", err)
			}
			assertInts(t, "post ids", postIDs(posts), tt.want)
		})
	}

	t.Run("LoadsAuthorUser", func(t *testing.T) {
		post, err := repo.PostByID(ctx, 2)
		if err != nil {
			t.Fatalf("PostByID failed: %v", err)
		}
		if post == nil || post.Author == nil || post.Author.User == nil {
			t.Fatalf("expected post with author user, got %+v", post)
		}
		if post.Author.User.Username != "user2" {
			t.Errorf("expected username user2, got %q", post.Author.User.Username)
		}
	})
}

func TestAddPostRating_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	rating, err := repo.AddPostRating(ctx, 1, 1)
	if err != nil {
		t.Fatalf("AddPostRating failed: %v", err)
	}
	if rating != 6 {
		t.Errorf("expected rating 6 after like, got %d", rating)
	}

	for i := 0; i < 2; i++ {
		if rating, err = repo.AddPostRating(ctx, 1, -1); err != nil {
			t.Fatalf("AddPostRating failed: %v", err)
		}
	}
	if rating != 4 {
		t.Errorf("expected rating 4 after two dislikes, got %d", rating)
	}

	other, err := repo.PostByID(ctx, 2)
	if err != nil {
		t.Fatalf("PostByID failed: %v", err)
	}
	if other.Rating != 8 {
		t.Errorf("unrelated post rating changed: %d", other.Rating)
	}

	if _, err := repo.AddPostRating(ctx, 999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddCommentRating_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	rating, err := repo.AddCommentRating(ctx, 3, -1)
	if err != nil {
		t.Fatalf("AddCommentRating failed: %v", err)
	}
	if rating != -1 {
		t.Errorf("expected rating -1, got %d", rating)
	}

	comment, err := repo.CommentByID(ctx, 1)
	if err != nil {
		t.Fatalf("CommentByID failed: %v", err)
	}
	if comment.Rating != 2 {
		t.Errorf("unrelated comment rating changed: %d", comment.Rating)
	}

	if _, err := repo.AddCommentRating(ctx, 999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestComments_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	tests := []struct {
		name   string
		filter CommentFilter
		want   []int
	}{
		{name: "All", filter: CommentFilter{}, want: []int{4, 3, 2, 1}},
		{name: "ByPost", filter: CommentFilter{PostID: intPtr(1)}, want: []int{3, 1}},
		{name: "ByUser", filter: CommentFilter{UserID: intPtr(1)}, want: []int{3, 2}},
		{name: "OnAuthorPosts", filter: CommentFilter{PostAuthorID: intPtr(1)}, want: []int{4, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments, err := repo.Comments(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Comments failed: %v", err)
			}
			assertInts(t, "comment ids", commentIDs(comments), tt.want)
		})
	}
}

func TestPostCategories_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	if err := repo.AddPostCategories(ctx, 1, []int{1, 4}); err != nil {
		t.Fatalf("AddPostCategories failed: %v", err)
	}

	links, err := repo.PostCategories(ctx, []int{1})
	if err != nil {
		t.Fatalf("PostCategories failed: %v", err)
	}
	if got := fmt.Sprint(categoryNames(links)); got != "[Culture Politics Technology]" {
		t.Errorf("unexpected categories after add: %s", got)
	}

	if err := repo.RemovePostCategory(ctx, 1, 2); err != nil {
		t.Fatalf("RemovePostCategory failed: %v", err)
	}

	links, err = repo.PostCategories(ctx, []int{1})
	if err != nil {
		t.Fatalf("PostCategories failed: %v", err)
	}
	if got := fmt.Sprint(categoryNames(links)); got != "[Culture Politics]" {
		t.Errorf("unexpected categories after remove: %s", got)
	}
}

func TestDeletePost_Cascade_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	if err := repo.DeletePost(ctx, 1); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	comments, err := repo.Comments(ctx, CommentFilter{PostID: intPtr(1)})
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected comments of deleted post to be removed, got %d", len(comments))
	}

	links, err := repo.PostCategories(ctx, []int{1})
	if err != nil {
		t.Fatalf("PostCategories failed: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("expected links of deleted post to be removed, got %d", len(links))
	}

	sum, err := repo.SumPostRatings(ctx, 1)
	if err != nil {
		t.Fatalf("SumPostRatings failed: %v", err)
	}
	if sum != 3 {
		t.Errorf("expected remaining post rating sum 3, got %d", sum)
	}

	other, err := repo.CommentByID(ctx, 2)
	if err != nil {
		t.Fatalf("CommentByID failed: %v", err)
	}
	if other == nil {
		t.Error("comment on another post must survive")
	}

	if err := repo.DeletePost(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteCategory_Cascade_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	if err := repo.DeleteCategory(ctx, 2); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	links, err := repo.PostCategories(ctx, []int{1, 2})
	if err != nil {
		t.Fatalf("PostCategories failed: %v", err)
	}
	if got := fmt.Sprint(categoryNames(links)); got != "[Politics]" {
		t.Errorf("unexpected remaining links: %s", got)
	}

	post, err := repo.PostByID(ctx, 2)
	if err != nil {
		t.Fatalf("PostByID failed: %v", err)
	}
	if post == nil {
		t.Error("post must survive category deletion")
	}

	if err := repo.DeleteCategory(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteAuthor_Cascade_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	if err := repo.DeleteAuthor(ctx, 1); err != nil {
		t.Fatalf("DeleteAuthor failed: %v", err)
	}

	posts, err := repo.Posts(ctx, PostFilter{})
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	assertInts(t, "remaining posts", postIDs(posts), []int{2})

	comments, err := repo.Comments(ctx, CommentFilter{})
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	assertInts(t, "remaining comments", commentIDs(comments), []int{2})

	user, err := repo.UserByID(ctx, 1)
	if err != nil {
		t.Fatalf("UserByID failed: %v", err)
	}
	if user == nil {
		t.Error("user account must survive author deletion")
	}
}

func TestDeleteUser_Cascade_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	if err := repo.DeleteUser(ctx, 2); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	posts, err := repo.Posts(ctx, PostFilter{})
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	assertInts(t, "remaining posts", postIDs(posts), []int{3, 1})

	comments, err := repo.Comments(ctx, CommentFilter{})
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	assertInts(t, "remaining comments", commentIDs(comments), []int{3})

	author, err := repo.AuthorByID(ctx, 2)
	if err != nil {
		t.Fatalf("AuthorByID failed: %v", err)
	}
	if author != nil {
		t.Errorf("expected author to be deleted, got %+v", author)
	}

	if err := repo.DeleteUser(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
