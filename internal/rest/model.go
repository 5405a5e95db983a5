package rest

import "time"

type User struct {
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
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
	TypeLabel  string     `json:"typeLabel"`
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
	Title      string     `json:"title"`
	Preview    string     `json:"preview"`
	Rating     int        `json:"rating"`
	Categories []Category `json:"categories"`
}

type Comment struct {
	CommentID int       `json:"commentId"`
	PostID    int       `json:"postId"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Rating    int       `json:"rating"`
}

type Rating struct {
	Rating int `json:"rating"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateAuthorRequest struct {
	UserID int `json:"userId"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreatePostRequest struct {
	AuthorID    int    `json:"authorId"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	CategoryIDs []int  `json:"categoryIds"`
}

type PostCategoriesRequest struct {
	CategoryIDs []int `json:"categoryIds"`
}

type CreateCommentRequest struct {
	PostID int    `json:"postId"`
	UserID int    `json:"userId"`
	Text   string `json:"text"`
}

type PostsRequest struct {
	AuthorID   *int    `query:"authorId"`
	Type       *string `query:"type"`
	MinRating  *int    `query:"minRating"`
	CategoryID *int    `query:"categoryId"`
	Category   *string `query:"category"`
	Sort       string  `query:"sort"`
	Page       int     `query:"page"`
	PageSize   int     `query:"pageSize"`
}

type TopAuthorsRequest struct {
	MinPostRating int `query:"minPostRating"`
}

// CommentsRequest is decoded with urlstruct: ?post_id=&user_id=&author_id=
type CommentsRequest struct {
	PostID   int
	UserID   int
	AuthorID int
}
