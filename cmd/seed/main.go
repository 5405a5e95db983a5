package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-pg/pg/v10"
	"github.com/namsral/flag"

	"github.com/daniilsolovey/blog/config"
	"github.com/daniilsolovey/blog/internal/blog"
	"github.com/daniilsolovey/blog/internal/db"
)

var (
	flConfig      = flag.String("config", "config.toml", "path to TOML configuration file")
	flDatabaseURL = flag.String("database-url", "", "database connection URL, overrides [Database] (DATABASE_URL)")
	flDebug       = flag.Bool("debug", false, "enable debug mode")
	lg            *slog.Logger
)

type postSeed struct {
	author     int
	postType   blog.PostType
	title      string
	text       string
	rating     int
	categories []int
}

type commentSeed struct {
	post   int
	user   int
	text   string
	rating int
}

var (
	usernames  = []string{"user1", "user2"}
	categories = []string{"Politics", "Technology", "Sports", "Culture"}
	posts      = []postSeed{
		{author: 0, postType: blog.PostTypeArticle, title: "New political reform", text: "Article about the political reform...", rating: 5, categories: []int{0, 1}},
		{author: 1, postType: blog.PostTypeNews, title: "Technology news", text: "Latest news from the world of technology...", rating: 8, categories: []int{1}},
		{author: 0, postType: blog.PostTypeArticle, title: "Sports achievements", text: "Review of recent sporting events...", rating: 3, categories: []int{2}},
	}
	comments = []commentSeed{
		{post: 0, user: 1, text: "Interesting article!", rating: 2},
		{post: 1, user: 0, text: "Thanks for the news!", rating: 4},
		{post: 0, user: 0, text: "I disagree with the author", rating: 0},
		{post: 2, user: 1, text: "Great review!", rating: 1},
	}
)

func main() {
	flag.Parse()

	logLevel := slog.LevelInfo
	if *flDebug {
		logLevel = slog.LevelDebug
	}
	lg = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := config.Load(*flConfig, *flDatabaseURL)
	exitOnError(err)

	dbc := pg.Connect(&cfg.Database)
	defer dbc.Close()
	if cfg.App.LogQueries {
		dbc.AddQueryHook(db.NewQueryHook(lg))
	}

	ctx := context.Background()
	exitOnError(dbc.Ping(ctx))

	exitOnError(seed(ctx, blog.NewManager(db.New(dbc), lg)))
}

// repeat applies fn n times, a negative n applies undo instead.
func repeat(ctx context.Context, id, n int, fn, undo func(context.Context, int) (int, error)) error {
	if n < 0 {
		n, fn = -n, undo
	}
	for i := 0; i < n; i++ {
		if _, err := fn(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func seed(ctx context.Context, m *blog.Manager) error {
	authorIDs := make([]int, len(usernames))
	for i, name := range usernames {
		user, err := m.CreateUser(ctx, name, "password"+name[len(name)-1:])
		if err != nil {
			return fmt.Errorf("create user %s: %w", name, err)
		}
		author, err := m.CreateAuthor(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("create author %s: %w", name, err)
		}
		authorIDs[i] = author.ID
	}

	categoryIDs := make([]int, len(categories))
	for i, name := range categories {
		category, err := m.CreateCategory(ctx, name)
		if err != nil {
			return err
		}
		categoryIDs[i] = category.ID
	}

	postIDs := make([]int, len(posts))
	for i, p := range posts {
		ids := make([]int, len(p.categories))
		for j, c := range p.categories {
			ids[j] = categoryIDs[c]
		}

		post, err := m.CreatePost(ctx, blog.PostInput{
			AuthorID:    authorIDs[p.author],
			Type:        p.postType,
			Title:       p.title,
			Text:        p.text,
			CategoryIDs: ids,
		})
		if err != nil {
			return err
		}
		if err := repeat(ctx, post.ID, p.rating, m.LikePost, m.DislikePost); err != nil {
			return err
		}
		postIDs[i] = post.ID
	}

	commentIDs := make([]int, len(comments))
	for i, c := range comments {
		author, err := m.Author(ctx, authorIDs[c.user])
		if err != nil {
			return err
		}

		comment, err := m.CreateComment(ctx, blog.CommentInput{PostID: postIDs[c.post], UserID: author.UserID, Text: c.text})
		if err != nil {
			return err
		}
		if err := repeat(ctx, comment.ID, c.rating, m.LikeComment, m.DislikeComment); err != nil {
			return err
		}
		commentIDs[i] = comment.ID
	}

	// likes and dislikes of the session
	for _, step := range []struct {
		id int
		fn func(context.Context, int) (int, error)
	}{
		{postIDs[0], m.LikePost},
		{postIDs[1], m.LikePost},
		{postIDs[2], m.DislikePost},
		{commentIDs[0], m.LikeComment},
		{commentIDs[1], m.LikeComment},
		{commentIDs[2], m.DislikeComment},
	} {
		if _, err := step.fn(ctx, step.id); err != nil {
			return err
		}
	}

	authors, err := m.UpdateRatings(ctx)
	if err != nil {
		return err
	}
	for _, a := range authors {
		lg.Info("author rating", "author", a.Username, "rating", a.Rating)
	}

	best, err := m.BestPost(ctx)
	if err != nil {
		return err
	} else if best != nil {
		names := make([]string, 0, len(best.Categories))
		for _, c := range best.Categories {
			names = append(names, c.Name)
		}
		lg.Info("best post",
			"title", best.Caption(),
			"author", best.AuthorName,
			"preview", best.Preview(),
			"rating", best.Rating,
			"categories", strings.Join(names, ", "),
		)
	}

	top, err := m.TopAuthors(ctx, 5)
	if err != nil {
		return err
	}
	lg.Info("authors with posts rated above 5", "count", len(top))

	if _, err := m.AddPostCategories(ctx, postIDs[0], []int{categoryIDs[3]}); err != nil {
		return err
	}
	if err := m.RemovePostCategory(ctx, postIDs[0], categoryIDs[1]); err != nil {
		return err
	}

	lg.Info("seed completed", "posts", len(postIDs), "comments", len(commentIDs))
	return nil
}

func exitOnError(err error) {
	if err != nil {
		lg.Error("seed failed", "error", err)
		os.Exit(1)
	}
}
