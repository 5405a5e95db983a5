// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Tables = struct {
	Author struct {
		Name, Alias string
	}
	Category struct {
		Name, Alias string
	}
	Comment struct {
		Name, Alias string
	}
	GooseDbVersion struct {
		Name, Alias string
	}
	Post struct {
		Name, Alias string
	}
	PostCategory struct {
		Name, Alias string
	}
	User struct {
		Name, Alias string
	}
}{
	Author: struct {
		Name, Alias string
	}{
		Name:  "authors",
		Alias: "t",
	},
	Category: struct {
		Name, Alias string
	}{
		Name:  "categories",
		Alias: "t",
	},
	Comment: struct {
		Name, Alias string
	}{
		Name:  "comments",
		Alias: "t",
	},
	GooseDbVersion: struct {
		Name, Alias string
	}{
		Name:  "goose_db_version",
		Alias: "t",
	},
	Post: struct {
		Name, Alias string
	}{
		Name:  "posts",
		Alias: "t",
	},
	PostCategory: struct {
		Name, Alias string
	}{
		Name:  "post_categories",
		Alias: "t",
	},
	User: struct {
		Name, Alias string
	}{
		Name:  "users",
		Alias: "t",
	},
}

type User struct {
	tableName struct{} `pg:"users,alias:t,discard_unknown_columns"`

	ID           int       `pg:"userId,pk"`
	Username     string    `pg:"username,use_zero"`
	PasswordHash string    `pg:"passwordHash,use_zero"`
	CreatedAt    time.Time `pg:"createdAt,use_zero"`
}

type Author struct {
	tableName struct{} `pg:"authors,alias:t,discard_unknown_columns"`

	ID     int `pg:"authorId,pk"`
	UserID int `pg:"userId,use_zero"`
	Rating int `pg:"rating,use_zero"`

	User *User `pg:"fk:userId,rel:has-one"`
}

type Category struct {
	tableName struct{} `pg:"categories,alias:t,discard_unknown_columns"`

	ID   int    `pg:"categoryId,pk"`
	Name string `pg:"name,use_zero"`
}

type Post struct {
	tableName struct{} `pg:"posts,alias:t,discard_unknown_columns"`

	ID        int       `pg:"postId,pk"`
	AuthorID  int       `pg:"authorId,use_zero"`
	PostType  string    `pg:"postType,use_zero"`
	CreatedAt time.Time `pg:"createdAt,use_zero"`
	Title     string    `pg:"title,use_zero"`
	Text      string    `pg:"text,use_zero"`
	Rating    int       `pg:"rating,use_zero"`

	Author *Author `pg:"fk:authorId,rel:has-one"`
}

type PostCategory struct {
	tableName struct{} `pg:"post_categories,alias:t,discard_unknown_columns"`

	PostID     int `pg:"postId,pk"`
	CategoryID int `pg:"categoryId,pk"`

	Category *Category `pg:"fk:categoryId,rel:has-one"`
}

type Comment struct {
	tableName struct{} `pg:"comments,alias:t,discard_unknown_columns"`

	ID        int       `pg:"commentId,pk"`
	PostID    int       `pg:"postId,use_zero"`
	UserID    int       `pg:"userId,use_zero"`
	Text      string    `pg:"text,use_zero"`
	CreatedAt time.Time `pg:"createdAt,use_zero"`
	Rating    int       `pg:"rating,use_zero"`

	User *User `pg:"fk:userId,rel:has-one"`
}
