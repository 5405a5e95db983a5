package rpc

import "github.com/daniilsolovey/blog/internal/blog"

func NewAuthor(a blog.Author) Author {
	return Author{
		AuthorID: a.ID,
		UserID:   a.UserID,
		Username: a.Username,
		Rating:   a.Rating,
	}
}

func NewCategory(c blog.Category) Category {
	return Category{
		CategoryID: c.ID,
		Name:       c.Name,
	}
}

func NewCategories(list blog.Categories) []Category {
	categories := make([]Category, len(list))
	for i := range list {
		categories[i] = NewCategory(list[i])
	}
	return categories
}

func NewPost(p blog.Post) Post {
	return Post{
		PostID:     p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		Type:       p.Type.String(),
		CreatedAt:  p.CreatedAt,
		Title:      p.Title,
		Text:       p.Text,
		Rating:     p.Rating,
		Categories: NewCategories(p.Categories),
	}
}

func NewPostSummary(p blog.Post) PostSummary {
	return PostSummary{
		PostID:     p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		Type:       p.Type.String(),
		CreatedAt:  p.CreatedAt,
		Caption:    p.Caption(),
		Preview:    p.Preview(),
		Rating:     p.Rating,
		Categories: NewCategories(p.Categories),
	}
}

func NewPostSummaries(list blog.Posts) []PostSummary {
	summaries := make([]PostSummary, len(list))
	for i := range list {
		summaries[i] = NewPostSummary(list[i])
	}
	return summaries
}
