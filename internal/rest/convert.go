package rest

import "github.com/daniilsolovey/blog/internal/blog"

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

func NewUser(u blog.User) User {
	return User{
		UserID:    u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

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

func NewPost(p blog.Post) Post {
	return Post{
		PostID:     p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		Type:       p.Type.String(),
		TypeLabel:  p.Type.Label(),
		CreatedAt:  p.CreatedAt,
		Title:      p.Title,
		Text:       p.Text,
		Rating:     p.Rating,
		Categories: Map(p.Categories, NewCategory),
	}
}

func NewPostSummary(p blog.Post) PostSummary {
	return PostSummary{
		PostID:     p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		Type:       p.Type.String(),
		CreatedAt:  p.CreatedAt,
		Title:      p.Title,
		Preview:    p.Preview(),
		Rating:     p.Rating,
		Categories: Map(p.Categories, NewCategory),
	}
}

func NewComment(c blog.Comment) Comment {
	return Comment{
		CommentID: c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Username:  c.Username,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		Rating:    c.Rating,
	}
}

func optionalID(id int) *int {
	if id <= 0 {
		return nil
	}
	return &id
}
