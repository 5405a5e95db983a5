package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	apiV1Prefix = "/api/v1"

	healthPath  = "/health"
	swaggerPath = "/swagger/doc.json"
)

// RegisterRoutes builds the echo instance with all blog routes.
func (h *BlogHandler) RegisterRoutes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			h.log.Info("HTTP request",
				"method", v.Method,
				"path", v.URI,
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
				"remote_addr", c.RealIP(),
			)
			return nil
		},
	}))

	e.GET(healthPath, h.Health)
	e.GET(swaggerPath, h.SwaggerDoc)

	h.registerAPIRoutes(e.Group(apiV1Prefix))

	return e
}

func (h *BlogHandler) registerAPIRoutes(g *echo.Group) {
	g.POST("/users", h.CreateUser)
	g.DELETE("/users/:id", h.DeleteUser)

	g.GET("/authors", h.Authors)
	g.POST("/authors", h.CreateAuthor)
	g.GET("/authors/top", h.TopAuthors)
	g.POST("/authors/ratings", h.UpdateRatings)
	g.GET("/authors/:id", h.AuthorByID)
	g.DELETE("/authors/:id", h.DeleteAuthor)
	g.POST("/authors/:id/rating", h.UpdateAuthorRating)

	g.GET("/categories", h.Categories)
	g.POST("/categories", h.CreateCategory)
	g.DELETE("/categories/:id", h.DeleteCategory)

	g.GET("/posts", h.Posts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/best", h.BestPost)
	g.GET("/posts/:id", h.PostByID)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.LikePost)
	g.POST("/posts/:id/dislike", h.DislikePost)
	g.POST("/posts/:id/categories", h.AddPostCategories)
	g.DELETE("/posts/:id/categories/:categoryId", h.RemovePostCategory)

	g.GET("/comments", h.Comments)
	g.POST("/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/like", h.LikeComment)
	g.POST("/comments/:id/dislike", h.DislikeComment)
}
