package blog

import (
	"fmt"
	"strings"

	"github.com/daniilsolovey/blog/internal/db"
)

const previewLength = 124

// PostType is the kind of a post. The zero value is not a valid type.
type PostType int

const (
	PostTypeArticle PostType = iota + 1
	PostTypeNews
)

// ParsePostType accepts both API names (article, news) and storage codes (AR, NW).
func ParsePostType(s string) (PostType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "article", "ar":
		return PostTypeArticle, nil
	case "news", "nw":
		return PostTypeNews, nil
	}

	return 0, fmt.Errorf("%w: unknown post type %q", ErrValidation, s)
}

func postTypeFromCode(code string) PostType {
	switch code {
	case db.PostTypeNews:
		return PostTypeNews
	case db.PostTypeArticle:
		return PostTypeArticle
	}

	return 0
}

func (t PostType) Valid() bool {
	return t == PostTypeArticle || t == PostTypeNews
}

// Code returns the storage code of the type.
func (t PostType) Code() string {
	if t == PostTypeNews {
		return db.PostTypeNews
	}
	return db.PostTypeArticle
}

func (t PostType) String() string {
	switch t {
	case PostTypeArticle:
		return "article"
	case PostTypeNews:
		return "news"
	}
	return "unknown"
}

// Label is the human readable name of the type.
func (t PostType) Label() string {
	switch t {
	case PostTypeArticle:
		return "Article"
	case PostTypeNews:
		return "News"
	}
	return "Unknown"
}

type User struct {
	db.User
}

type Author struct {
	db.Author
	Username string
}

type Category struct {
	db.Category
}

type Post struct {
	db.Post
	Type       PostType
	AuthorName string
	Categories []Category
}

// Preview returns the first 124 characters of the text followed by "..."
// when the text is longer.
func (p Post) Preview() string {
	runes := []rune(p.Text)
	if len(runes) <= previewLength {
		return p.Text
	}

	return string(runes[:previewLength]) + "..."
}

// Caption is the post title with its type label, e.g. "Title (Article)".
func (p Post) Caption() string {
	return fmt.Sprintf("%s (%s)", p.Title, p.Type.Label())
}

type Comment struct {
	db.Comment
	Username string
}

type PostFilter struct {
	AuthorID     *int
	Type         *PostType
	MinRating    *int
	CategoryID   *int
	CategoryName *string
	SortByRating bool
	Page         int
	PageSize     int
}

func (f PostFilter) toDB() (db.PostFilter, error) {
	if f.Page < 0 || f.PageSize < 0 {
		return db.PostFilter{}, fmt.Errorf(
			"%w: page and pageSize must not be negative: page=%d, pageSize=%d",
			ErrValidation, f.Page, f.PageSize,
		)
	}

	filter := db.PostFilter{
		AuthorID:      f.AuthorID,
		MinRating:     f.MinRating,
		CategoryID:    f.CategoryID,
		CategoryName:  f.CategoryName,
		OrderByRating: f.SortByRating,
	}

	if f.Type != nil {
		if !f.Type.Valid() {
			return db.PostFilter{}, fmt.Errorf("%w: unknown post type %d", ErrValidation, *f.Type)
		}
		code := f.Type.Code()
		filter.PostType = &code
	}

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		filter.Limit = f.PageSize
		filter.Offset = (page - 1) * f.PageSize
	}

	return filter, nil
}

type CommentFilter struct {
	PostID   *int
	UserID   *int
	AuthorID *int
}

func (f CommentFilter) toDB() db.CommentFilter {
	return db.CommentFilter{
		PostID:       f.PostID,
		UserID:       f.UserID,
		PostAuthorID: f.AuthorID,
	}
}

type PostInput struct {
	AuthorID    int
	Type        PostType
	Title       string
	Text        string
	CategoryIDs []int
}

type CommentInput struct {
	PostID int
	UserID int
	Text   string
}
