package blog

import "github.com/daniilsolovey/blog/internal/db"

func NewUser(u *db.User) User {
	return User{User: *u}
}

func NewAuthor(a *db.Author) Author {
	author := Author{Author: *a}
	if a.User != nil {
		author.Username = a.User.Username
	}

	return author
}

func NewCategory(c *db.Category) Category {
	return Category{Category: *c}
}

func NewPost(p *db.Post) Post {
	post := Post{
		Post: *p,
		Type: postTypeFromCode(p.PostType),
	}

	if p.Author != nil && p.Author.User != nil {
		post.AuthorName = p.Author.User.Username
	}

	return post
}

func NewComment(c *db.Comment) Comment {
	comment := Comment{Comment: *c}
	if c.User != nil {
		comment.Username = c.User.Username
	}

	return comment
}
