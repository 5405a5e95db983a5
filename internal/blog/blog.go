package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/daniilsolovey/blog/internal/db"
)

const (
	maxUsernameLength = 150
	maxCategoryLength = 100
	maxTitleLength    = 200
)

var (
	ErrNotFound   = db.ErrNotFound
	ErrDuplicate  = db.ErrDuplicate
	ErrValidation = errors.New("validation failed")
)

type Manager struct {
	db  *db.Repository
	log *slog.Logger
}

func NewManager(repo *db.Repository, logger *slog.Logger) *Manager {
	return &Manager{
		db:  repo,
		log: logger,
	}
}

func notFound(what string, id int) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

func validateText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, maxLen)
	}
	return nil
}

// CreateUser stores a user account with a bcrypt hash of the password.
func (m *Manager) CreateUser(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateText("username", username, maxUsernameLength); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	dbUser := &db.User{Username: username, PasswordHash: string(hash)}
	if err := m.db.CreateUser(ctx, dbUser); err != nil {
		return nil, fmt.Errorf("db create user: %w", err)
	}

	user := NewUser(dbUser)
	return &user, nil
}

// DeleteUser removes the user, its comments and its author profile with posts.
func (m *Manager) DeleteUser(ctx context.Context, userID int) error {
	if err := m.db.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("db delete user: %w", err)
	}

	m.log.Info("user deleted", "userID", userID)
	return nil
}

func (m *Manager) CreateAuthor(ctx context.Context, userID int) (*Author, error) {
	dbAuthor := &db.Author{UserID: userID}
	if err := m.db.CreateAuthor(ctx, dbAuthor); err != nil {
		return nil, fmt.Errorf("db create author: %w", err)
	}

	return m.Author(ctx, dbAuthor.ID)
}

// Author returns nil when the author does not exist.
func (m *Manager) Author(ctx context.Context, authorID int) (*Author, error) {
	dbAuthor, err := m.db.AuthorByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("db get author by id: %w", err)
	} else if dbAuthor == nil {
		return nil, nil
	}

	author := NewAuthor(dbAuthor)
	return &author, nil
}

func (m *Manager) Authors(ctx context.Context) (Authors, error) {
	list, err := m.db.Authors(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get authors: %w", err)
	}

	return NewAuthors(list), nil
}

// TopAuthors returns authors having a post rated above minPostRating.
func (m *Manager) TopAuthors(ctx context.Context, minPostRating int) (Authors, error) {
	list, err := m.db.TopAuthors(ctx, minPostRating)
	if err != nil {
		return nil, fmt.Errorf("db get top authors: %w", err)
	}

	return NewAuthors(list), nil
}

// DeleteAuthor removes the author with all posts, their comments and links.
func (m *Manager) DeleteAuthor(ctx context.Context, authorID int) error {
	if err := m.db.DeleteAuthor(ctx, authorID); err != nil {
		return fmt.Errorf("db delete author: %w", err)
	}

	m.log.Info("author deleted", "authorID", authorID)
	return nil
}

// UpdateAuthorRating recomputes and stores the author rating. The sums and the
// write run in one transaction holding a lock on the author row, so
// concurrent recomputations of the same author are serialized.
func (m *Manager) UpdateAuthorRating(ctx context.Context, authorID int) (*Author, error) {
	err := m.db.InTx(ctx, func(tx *db.Repository) error {
		author, err := tx.AuthorForUpdate(ctx, authorID)
		if err != nil {
			return err
		} else if author == nil {
			return notFound("author", authorID)
		}

		return NewRatingAggregator(tx).UpdateRating(ctx, author)
	})
	if err != nil {
		m.log.Error("failed to update author rating", "error", err, "authorID", authorID)
		return nil, fmt.Errorf("update author rating: %w", err)
	}

	author, err := m.Author(ctx, authorID)
	if err != nil {
		return nil, err
	} else if author == nil {
		return nil, notFound("author", authorID)
	}

	m.log.Info("author rating updated", "authorID", authorID, "rating", author.Rating)
	return author, nil
}

// UpdateRatings recomputes ratings of all authors.
func (m *Manager) UpdateRatings(ctx context.Context) (Authors, error) {
	list, err := m.db.Authors(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get authors: %w", err)
	}

	for i := range list {
		if _, err := m.UpdateAuthorRating(ctx, list[i].ID); err != nil {
			return nil, err
		}
	}

	return m.Authors(ctx)
}

func (m *Manager) CreateCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateText("name", name, maxCategoryLength); err != nil {
		return nil, err
	}

	dbCategory := &db.Category{Name: name}
	if err := m.db.CreateCategory(ctx, dbCategory); err != nil {
		return nil, fmt.Errorf("db create category: %w", err)
	}

	category := NewCategory(dbCategory)
	return &category, nil
}

func (m *Manager) Categories(ctx context.Context) (Categories, error) {
	list, err := m.db.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get categories: %w", err)
	}

	return NewCategories(list), nil
}

// DeleteCategory removes the category and unlinks it from every post.
func (m *Manager) DeleteCategory(ctx context.Context, categoryID int) error {
	if err := m.db.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("db delete category: %w", err)
	}

	return nil
}

func (m *Manager) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	if in.Type == 0 {
		in.Type = PostTypeArticle
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown post type %d", ErrValidation, in.Type)
	}
	if err := validateText("title", in.Title, maxTitleLength); err != nil {
		return nil, err
	}
	if err := validateText("text", in.Text, 0); err != nil {
		return nil, err
	}

	dbPost := &db.Post{
		AuthorID: in.AuthorID,
		PostType: in.Type.Code(),
		Title:    in.Title,
		Text:     in.Text,
	}

	err := m.db.InTx(ctx, func(tx *db.Repository) error {
		if err := tx.CreatePost(ctx, dbPost); err != nil {
			return err
		}

		return tx.AddPostCategories(ctx, dbPost.ID, in.CategoryIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("db create post: %w", err)
	}

	return m.Post(ctx, dbPost.ID)
}

// Post returns the post with its categories, nil when it does not exist.
func (m *Manager) Post(ctx context.Context, postID int) (*Post, error) {
	dbPost, err := m.db.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("db get post by id: %w", err)
	} else if dbPost == nil {
		return nil, nil
	}

	posts, err := m.fillCategories(ctx, NewPosts([]db.Post{*dbPost}))
	if err != nil {
		return nil, err
	}

	return &posts[0], nil
}

// Posts returns posts matching the filter with their categories. Newest
// posts come first unless SortByRating is set.
func (m *Manager) Posts(ctx context.Context, f PostFilter) (Posts, error) {
	filter, err := f.toDB()
	if err != nil {
		return nil, err
	}

	list, err := m.db.Posts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("db get posts: %w", err)
	}

	return m.fillCategories(ctx, NewPosts(list))
}

// BestPost returns the highest rated post, nil when there are no posts.
func (m *Manager) BestPost(ctx context.Context) (*Post, error) {
	posts, err := m.Posts(ctx, PostFilter{SortByRating: true, PageSize: 1})
	if err != nil {
		return nil, err
	} else if len(posts) == 0 {
		return nil, nil
	}

	return &posts[0], nil
}

func (m *Manager) DeletePost(ctx context.Context, postID int) error {
	if err := m.db.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("db delete post: %w", err)
	}

	m.log.Info("post deleted", "postID", postID)
	return nil
}

// LikePost increments the post rating and returns the new value.
func (m *Manager) LikePost(ctx context.Context, postID int) (int, error) {
	return m.ratePost(ctx, postID, 1)
}

// DislikePost decrements the post rating and returns the new value.
func (m *Manager) DislikePost(ctx context.Context, postID int) (int, error) {
	return m.ratePost(ctx, postID, -1)
}

func (m *Manager) ratePost(ctx context.Context, postID, delta int) (int, error) {
	rating, err := m.db.AddPostRating(ctx, postID, delta)
	if err != nil {
		return 0, fmt.Errorf("db rate post: %w", err)
	}

	return rating, nil
}

// AddPostCategories links categories to the post, existing links are kept.
func (m *Manager) AddPostCategories(ctx context.Context, postID int, categoryIDs []int) (*Post, error) {
	post, err := m.db.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("db get post by id: %w", err)
	} else if post == nil {
		return nil, notFound("post", postID)
	}

	if err := m.db.AddPostCategories(ctx, postID, categoryIDs); err != nil {
		return nil, fmt.Errorf("db add post categories: %w", err)
	}

	return m.Post(ctx, postID)
}

func (m *Manager) RemovePostCategory(ctx context.Context, postID, categoryID int) error {
	if err := m.db.RemovePostCategory(ctx, postID, categoryID); err != nil {
		return fmt.Errorf("db remove post category: %w", err)
	}

	return nil
}

func (m *Manager) fillCategories(ctx context.Context, posts Posts) (Posts, error) {
	links, err := m.db.PostCategories(ctx, posts.IDs())
	if err != nil {
		return nil, fmt.Errorf("failed to attach categories to posts: %w", err)
	}

	posts.SetCategories(links)
	return posts, nil
}

func (m *Manager) CreateComment(ctx context.Context, in CommentInput) (*Comment, error) {
	if err := validateText("text", in.Text, 0); err != nil {
		return nil, err
	}

	dbComment := &db.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   in.Text,
	}
	if err := m.db.CreateComment(ctx, dbComment); err != nil {
		return nil, fmt.Errorf("db create comment: %w", err)
	}

	return m.Comment(ctx, dbComment.ID)
}

// Comment returns nil when the comment does not exist.
func (m *Manager) Comment(ctx context.Context, commentID int) (*Comment, error) {
	dbComment, err := m.db.CommentByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("db get comment by id: %w", err)
	} else if dbComment == nil {
		return nil, nil
	}

	comment := NewComment(dbComment)
	return &comment, nil
}

// Comments returns comments matching the filter, newest first.
func (m *Manager) Comments(ctx context.Context, f CommentFilter) (Comments, error) {
	list, err := m.db.Comments(ctx, f.toDB())
	if err != nil {
		return nil, fmt.Errorf("db get comments: %w", err)
	}

	return NewComments(list), nil
}

func (m *Manager) DeleteComment(ctx context.Context, commentID int) error {
	if err := m.db.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("db delete comment: %w", err)
	}

	return nil
}

// LikeComment increments the comment rating and returns the new value.
func (m *Manager) LikeComment(ctx context.Context, commentID int) (int, error) {
	return m.rateComment(ctx, commentID, 1)
}

// DislikeComment decrements the comment rating and returns the new value.
func (m *Manager) DislikeComment(ctx context.Context, commentID int) (int, error) {
	return m.rateComment(ctx, commentID, -1)
}

func (m *Manager) rateComment(ctx context.Context, commentID, delta int) (int, error) {
	rating, err := m.db.AddCommentRating(ctx, commentID, delta)
	if err != nil {
		return 0, fmt.Errorf("db rate comment: %w", err)
	}

	return rating, nil
}
