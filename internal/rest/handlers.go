package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-pg/urlstruct"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"

	"github.com/daniilsolovey/blog/internal/blog"
)

type BlogHandler struct {
	uc  *blog.Manager
	log *slog.Logger
}

func NewBlogHandler(uc *blog.Manager, log *slog.Logger) *BlogHandler {
	return &BlogHandler{
		uc:  uc,
		log: log,
	}
}

func (h *BlogHandler) handleError(c echo.Context, err error, statusCode int, message string) error {
	h.log.Error("handleError", "error", err, "statusCode", statusCode, "message", message)
	return c.JSON(statusCode, map[string]string{"error": message})
}

// handleManagerError maps domain errors to HTTP statuses.
func (h *BlogHandler) handleManagerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, blog.ErrValidation):
		return h.handleError(c, err, http.StatusBadRequest, err.Error())
	case errors.Is(err, blog.ErrNotFound):
		return h.handleError(c, err, http.StatusNotFound, "not found")
	case errors.Is(err, blog.ErrDuplicate):
		return h.handleError(c, err, http.StatusConflict, "already exists")
	}

	return h.handleError(c, err, http.StatusInternalServerError, "internal error")
}

func pathID(c echo.Context, name string) (int, error) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}

	return id, nil
}

// Health handles GET /health
func (h *BlogHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SwaggerDoc handles GET /swagger/doc.json
func (h *BlogHandler) SwaggerDoc(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return h.handleError(c, err, http.StatusInternalServerError, "internal error")
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
}

// CreateUser handles POST /api/v1/users
// @Summary Create user account
// @Tags users
// @Accept json
// @Produce json
// @Param request body rest.CreateUserRequest true "User"
// @Success 201 {object} rest.User
// @Failure 400,409,500 {object} map[string]string
// @Router /api/v1/users [post]
func (h *BlogHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	user, err := h.uc.CreateUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusCreated, NewUser(*user))
}

// DeleteUser handles DELETE /api/v1/users/:id
// @Summary Delete user with comments and author profile
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/users/{id} [delete]
func (h *BlogHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.DeleteUser(c.Request().Context(), id); err != nil {
		return h.handleManagerError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Authors handles GET /api/v1/authors
// @Summary Get all authors
// @Description Authors ordered by rating DESC
// @Tags authors
// @Produce json
// @Success 200 {array} rest.Author
// @Failure 500 {object} map[string]string
// @Router /api/v1/authors [get]
func (h *BlogHandler) Authors(c echo.Context) error {
	authors, err := h.uc.Authors(c.Request().Context())
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, Map(authors, NewAuthor))
}

// TopAuthors handles GET /api/v1/authors/top
// @Summary Get authors having a post rated above minPostRating
// @Tags authors
// @Produce json
// @Param minPostRating query int false "Post rating threshold (default: 0)"
// @Success 200 {array} rest.Author
// @Failure 400,500 {object} map[string]string
// @Router /api/v1/authors/top [get]
func (h *BlogHandler) TopAuthors(c echo.Context) error {
	var req TopAuthorsRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	authors, err := h.uc.TopAuthors(c.Request().Context(), req.MinPostRating)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, Map(authors, NewAuthor))
}

// CreateAuthor handles POST /api/v1/authors
// @Summary Create author profile for a user
// @Tags authors
// @Accept json
// @Produce json
// @Param request body rest.CreateAuthorRequest true "Author"
// @Success 201 {object} rest.Author
// @Failure 400,404,409,500 {object} map[string]string
// @Router /api/v1/authors [post]
func (h *BlogHandler) CreateAuthor(c echo.Context) error {
	var req CreateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	author, err := h.uc.CreateAuthor(c.Request().Context(), req.UserID)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusCreated, NewAuthor(*author))
}

// AuthorByID handles GET /api/v1/authors/:id
// @Summary Get author by ID
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} rest.Author
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/authors/{id} [get]
func (h *BlogHandler) AuthorByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	author, err := h.uc.Author(c.Request().Context(), id)
	if err != nil {
		return h.handleManagerError(c, err)
	}
	if author == nil {
		return h.handleError(c, nil, http.StatusNotFound, "author not found")
	}

	return c.JSON(http.StatusOK, NewAuthor(*author))
}

// DeleteAuthor handles DELETE /api/v1/authors/:id
// @Summary Delete author with posts, their comments and category links
// @Tags authors
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/authors/{id} [delete]
func (h *BlogHandler) DeleteAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.DeleteAuthor(c.Request().Context(), id); err != nil {
		return h.handleManagerError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdateAuthorRating handles POST /api/v1/authors/:id/rating
// @Summary Recompute author rating
// @Description rating = 3 * sum(post ratings) + sum(own comment ratings) + sum(ratings of comments on own posts)
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} rest.Author
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/authors/{id}/rating [post]
func (h *BlogHandler) UpdateAuthorRating(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	author, err := h.uc.UpdateAuthorRating(c.Request().Context(), id)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, NewAuthor(*author))
}

// UpdateRatings handles POST /api/v1/authors/ratings
func (h *BlogHandler) UpdateRatings(c echo.Context) error {
	authors, err := h.uc.UpdateRatings(c.Request().Context())
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, Map(authors, NewAuthor))
}

// Categories handles GET /api/v1/categories
// @Summary Get all categories
// @Description Categories ordered by name
// @Tags categories
// @Produce json
// @Success 200 {array} rest.Category
// @Failure 500 {object} map[string]string
// @Router /api/v1/categories [get]
func (h *BlogHandler) Categories(c echo.Context) error {
	categories, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, Map(categories, NewCategory))
}

// CreateCategory handles POST /api/v1/categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body rest.CreateCategoryRequest true "Category"
// @Success 201 {object} rest.Category
// @Failure 400,409,500 {object} map[string]string
// @Router /api/v1/categories [post]
func (h *BlogHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	category, err := h.uc.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusCreated, NewCategory(*category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *BlogHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.DeleteCategory(c.Request().Context(), id); err != nil {
		return h.handleManagerError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Posts handles GET /api/v1/posts
// @Summary Get posts
// @Description Posts with optional filters, newest first or by rating DESC with sort=rating. Returns PostSummary with preview instead of text
// @Tags posts
// @Produce json
// @Param authorId query int false "Filter by author ID"
// @Param type query string false "article or news"
// @Param minRating query int false "Only posts rated above the value"
// @Param categoryId query int false "Filter by category ID"
// @Param category query string false "Filter by category name"
// @Param sort query string false "created (default) or rating"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: all)"
// @Success 200 {array} rest.PostSummary
// @Failure 400,500 {object} map[string]string
// @Router /api/v1/posts [get]
func (h *BlogHandler) Posts(c echo.Context) error {
	var req PostsRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	filter := blog.PostFilter{
		AuthorID:     req.AuthorID,
		MinRating:    req.MinRating,
		CategoryID:   req.CategoryID,
		CategoryName: req.Category,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}

	if req.Type != nil {
		postType, err := blog.ParsePostType(*req.Type)
		if err != nil {
			return h.handleManagerError(c, err)
		}
		filter.Type = &postType
	}

	switch req.Sort {
	case "", "created":
	case "rating":
		filter.SortByRating = true
	default:
		return h.handleError(c, nil, http.StatusBadRequest, "invalid sort")
	}

	posts, err := h.uc.Posts(c.Request().Context(), filter)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, Map(posts, NewPostSummary))
}

// BestPost handles GET /api/v1/posts/best
// @Summary Get the highest rated post
// @Tags posts
// @Produce json
// @Success 200 {object} rest.Post
// @Failure 404,500 {object} map[string]string
// @Router /api/v1/posts/best [get]
func (h *BlogHandler) BestPost(c echo.Context) error {
	post, err := h.uc.BestPost(c.Request().Context())
	if err != nil {
		return h.handleManagerError(c, err)
	}
	if post == nil {
		return h.handleError(c, nil, http.StatusNotFound, "post not found")
	}

	return c.JSON(http.StatusOK, NewPost(*post))
}

// PostByID handles GET /api/v1/posts/:id
// @Summary Get post by ID
// @Description Post with full text and categories
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} rest.Post
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/posts/{id} [get]
func (h *BlogHandler) PostByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	post, err := h.uc.Post(c.Request().Context(), id)
	if err != nil {
		return h.handleManagerError(c, err)
	}
	if post == nil {
		return h.handleError(c, nil, http.StatusNotFound, "post not found")
	}

	return c.JSON(http.StatusOK, NewPost(*post))
}

// CreatePost handles POST /api/v1/posts
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body rest.CreatePostRequest true "Post"
// @Success 201 {object} rest.Post
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/posts [post]
func (h *BlogHandler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	in := blog.PostInput{
		AuthorID:    req.AuthorID,
		Title:       req.Title,
		Text:        req.Text,
		CategoryIDs: req.CategoryIDs,
	}

	if req.Type != "" {
		postType, err := blog.ParsePostType(req.Type)
		if err != nil {
			return h.handleManagerError(c, err)
		}
		in.Type = postType
	}

	post, err := h.uc.CreatePost(c.Request().Context(), in)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusCreated, NewPost(*post))
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete post with its comments and category links
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/posts/{id} [delete]
func (h *BlogHandler) DeletePost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.DeletePost(c.Request().Context(), id); err != nil {
		return h.handleManagerError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// LikePost handles POST /api/v1/posts/:id/like
// @Summary Increment post rating
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} rest.Rating
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/posts/{id}/like [post]
func (h *BlogHandler) LikePost(c echo.Context) error {
	return h.rate(c, h.uc.LikePost)
}

// DislikePost handles POST /api/v1/posts/:id/dislike
// @Summary Decrement post rating
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} rest.Rating
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/posts/{id}/dislike [post]
func (h *BlogHandler) DislikePost(c echo.Context) error {
	return h.rate(c, h.uc.DislikePost)
}

// AddPostCategories handles POST /api/v1/posts/:id/categories
// @Summary Link categories to post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body rest.PostCategoriesRequest true "Categories"
// @Success 200 {object} rest.Post
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/posts/{id}/categories [post]
func (h *BlogHandler) AddPostCategories(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	var req PostCategoriesRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	post, err := h.uc.AddPostCategories(c.Request().Context(), id, req.CategoryIDs)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, NewPost(*post))
}

// RemovePostCategory handles DELETE /api/v1/posts/:id/categories/:categoryId
func (h *BlogHandler) RemovePostCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid categoryId")
	}

	if err := h.uc.RemovePostCategory(c.Request().Context(), id, categoryID); err != nil {
		return h.handleManagerError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Comments handles GET /api/v1/comments
// @Summary Get comments
// @Description Comments newest first, filtered by post, by writer or by author of the commented posts
// @Tags comments
// @Produce json
// @Param post_id query int false "Filter by post ID"
// @Param user_id query int false "Filter by writer user ID"
// @Param author_id query int false "Filter by author of the commented posts"
// @Success 200 {array} rest.Comment
// @Failure 400,500 {object} map[string]string
// @Router /api/v1/comments [get]
func (h *BlogHandler) Comments(c echo.Context) error {
	var req CommentsRequest
	if err := urlstruct.Unmarshal(c.Request().Context(), c.QueryParams(), &req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	comments, err := h.uc.Comments(c.Request().Context(), blog.CommentFilter{
		PostID:   optionalID(req.PostID),
		UserID:   optionalID(req.UserID),
		AuthorID: optionalID(req.AuthorID),
	})
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, Map(comments, NewComment))
}

// CreateComment handles POST /api/v1/comments
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Param request body rest.CreateCommentRequest true "Comment"
// @Success 201 {object} rest.Comment
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/comments [post]
func (h *BlogHandler) CreateComment(c echo.Context) error {
	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.uc.CreateComment(c.Request().Context(), blog.CommentInput{
		PostID: req.PostID,
		UserID: req.UserID,
		Text:   req.Text,
	})
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusCreated, NewComment(*comment))
}

// DeleteComment handles DELETE /api/v1/comments/:id
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.DeleteComment(c.Request().Context(), id); err != nil {
		return h.handleManagerError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// LikeComment handles POST /api/v1/comments/:id/like
func (h *BlogHandler) LikeComment(c echo.Context) error {
	return h.rate(c, h.uc.LikeComment)
}

// DislikeComment handles POST /api/v1/comments/:id/dislike
func (h *BlogHandler) DislikeComment(c echo.Context) error {
	return h.rate(c, h.uc.DislikeComment)
}

func (h *BlogHandler) rate(c echo.Context, fn func(ctx context.Context, id int) (int, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	rating, err := fn(c.Request().Context(), id)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, Rating{Rating: rating})
}
