package rpc

import (
	"time"

	"github.com/daniilsolovey/blog/internal/blog"
)

type PostFilter struct {
	//authorId optional author filter
	AuthorID *int `json:"authorId,omitempty"`
	//type optional post type: article or news
	Type *string `json:"type,omitempty"`
	//minRating optional exclusive lower bound of post rating
	MinRating *int `json:"minRating,omitempty"`
	//categoryId optional category filter
	CategoryID *int `json:"categoryId,omitempty"`
	//sortByRating order by rating DESC instead of createdAt DESC
	SortByRating bool `json:"sortByRating,omitempty"`
	//page=1 page number (1-based)
	Page *int `json:"page,omitempty"`
	//pageSize items per page
	PageSize *int `json:"pageSize,omitempty"`
}

func (f PostFilter) ToModel() (blog.PostFilter, error) {
	filter := blog.PostFilter{
		AuthorID:     f.AuthorID,
		MinRating:    f.MinRating,
		CategoryID:   f.CategoryID,
		SortByRating: f.SortByRating,
	}

	if f.Type != nil {
		postType, err := blog.ParsePostType(*f.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = &postType
	}
	if f.Page != nil {
		filter.Page = *f.Page
	}
	if f.PageSize != nil {
		filter.PageSize = *f.PageSize
	}

	return filter, nil
}

type Author struct {
	AuthorID int    `json:"authorId"`
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

type Category struct {
	CategoryID int    `json:"categoryId"`
	Name       string `json:"name"`
}

type Post struct {
	PostID     int        `json:"postId"`
	AuthorID   int        `json:"authorId"`
	AuthorName string     `json:"authorName"`
	Type       string     `json:"type"`
	CreatedAt  time.Time  `json:"createdAt"`
	Title      string     `json:"title"`
	Text       string     `json:"text"`
	Rating     int        `json:"rating"`
	Categories []Category `json:"categories"`
}

type PostSummary struct {
	PostID     int        `json:"postId"`
	AuthorID   int        `json:"authorId"`
	AuthorName string     `json:"authorName"`
	Type       string     `json:"type"`
	CreatedAt  time.Time  `json:"createdAt"`
	Caption    string     `json:"caption"`
	Preview    string     `json:"preview"`
	Rating     int        `json:"rating"`
	Categories []Category `json:"categories"`
}
