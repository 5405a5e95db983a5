package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
)

const (
	PostTypeArticle = "AR"
	PostTypeNews    = "NW"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Repository struct {
	db pg.DBI
}

func New(db pg.DBI) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Ping(ctx); err != nil {
			return err
		}
		return nil
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Close(); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// InTx runs fn inside a transaction. A repository already bound to a
// transaction passes itself to fn, the caller owns commit and rollback then.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	db, ok := r.db.(*pg.DB)
	if !ok {
		return fn(r)
	}

	return db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		return fn(New(tx))
	})
}

// writeErr maps integrity violations to ErrDuplicate and ErrNotFound.
func writeErr(op string, err error) error {
	var pgErr pg.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		case foreignKeyViolation:
			return fmt.Errorf("%s: referenced %w", op, ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if _, err := r.db.ModelContext(ctx, user).Insert(); err != nil {
		return writeErr("insert user", err)
	}

	return nil
}

func (r *Repository) UserByID(ctx context.Context, userID int) (*User, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).
		Where(`"t"."userId" = ?`, userID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// DeleteUser removes the user's comments, the author profile with all of its
// posts, and the user itself.
func (r *Repository) DeleteUser(ctx context.Context, userID int) error {
	return r.InTx(ctx, func(tx *Repository) error {
		if _, err := tx.db.ModelContext(ctx, (*Comment)(nil)).
			Where(`"userId" = ?`, userID).
			Delete(); err != nil {
			return fmt.Errorf("delete user comments: %w", err)
		}

		if err := tx.deleteAuthors(ctx, `"userId" = ?`, userID); err != nil {
			return err
		}

		res, err := tx.db.ModelContext(ctx, (*User)(nil)).
			Where(`"userId" = ?`, userID).
			Delete()
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		} else if res.RowsAffected() == 0 {
			return fmt.Errorf("delete user %d: %w", userID, ErrNotFound)
		}

		return nil
	})
}

func (r *Repository) CreateAuthor(ctx context.Context, author *Author) error {
	if _, err := r.db.ModelContext(ctx, author).Insert(); err != nil {
		return writeErr("insert author", err)
	}

	return nil
}

func (r *Repository) AuthorByID(ctx context.Context, authorID int) (*Author, error) {
	author := &Author{}
	err := r.db.ModelContext(ctx, author).
		Relation("User").
		Where(`"t"."authorId" = ?`, authorID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	return author, nil
}

// AuthorForUpdate selects the author row and locks it until the surrounding
// transaction ends.
func (r *Repository) AuthorForUpdate(ctx context.Context, authorID int) (*Author, error) {
	author := &Author{}
	err := r.db.ModelContext(ctx, author).
		Where(`"t"."authorId" = ?`, authorID).
		For("UPDATE").
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to lock author: %w", err)
	}

	return author, nil
}

// Authors returns all authors, highest rating first.
func (r *Repository) Authors(ctx context.Context) ([]Author, error) {
	var authors []Author
	err := r.db.ModelContext(ctx, &authors).
		Relation("User").
		OrderExpr(`"t"."rating" DESC, "t"."authorId" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}

	return authors, nil
}

// TopAuthors returns authors having at least one post rated above minPostRating.
func (r *Repository) TopAuthors(ctx context.Context, minPostRating int) ([]Author, error) {
	var authors []Author
	err := r.db.ModelContext(ctx, &authors).
		Relation("User").
		Where(`EXISTS (SELECT 1 FROM "posts" AS "p" WHERE "p"."authorId" = "t"."authorId" AND "p"."rating" > ?)`, minPostRating).
		OrderExpr(`"t"."rating" DESC, "t"."authorId" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query top authors: %w", err)
	}

	return authors, nil
}

func (r *Repository) UpdateAuthorRating(ctx context.Context, authorID, rating int) error {
	res, err := r.db.ModelContext(ctx, (*Author)(nil)).
		Set(`"rating" = ?`, rating).
		Where(`"authorId" = ?`, authorID).
		Update()
	if err != nil {
		return fmt.Errorf("update author rating: %w", err)
	} else if res.RowsAffected() == 0 {
		return fmt.Errorf("update author %d rating: %w", authorID, ErrNotFound)
	}

	return nil
}

func (r *Repository) DeleteAuthor(ctx context.Context, authorID int) error {
	return r.InTx(ctx, func(tx *Repository) error {
		author, err := tx.AuthorByID(ctx, authorID)
		if err != nil {
			return err
		} else if author == nil {
			return fmt.Errorf("delete author %d: %w", authorID, ErrNotFound)
		}

		return tx.deleteAuthors(ctx, `"authorId" = ?`, authorID)
	})
}

// deleteAuthors removes the authors matching cond together with their posts.
// Must run inside a transaction.
func (r *Repository) deleteAuthors(ctx context.Context, cond string, args ...interface{}) error {
	authorIDs := r.db.ModelContext(ctx, (*Author)(nil)).
		Column("authorId").
		Where(cond, args...)

	if err := r.deletePosts(ctx, `"authorId" IN (?)`, authorIDs); err != nil {
		return err
	}

	if _, err := r.db.ModelContext(ctx, (*Author)(nil)).
		Where(cond, args...).
		Delete(); err != nil {
		return fmt.Errorf("delete authors: %w", err)
	}

	return nil
}

// SumPostRatings returns the sum of ratings over the author's posts, 0 if none.
func (r *Repository) SumPostRatings(ctx context.Context, authorID int) (int, error) {
	var sum int
	err := r.db.ModelContext(ctx, (*Post)(nil)).
		ColumnExpr(`COALESCE(SUM("t"."rating"), 0)`).
		Where(`"t"."authorId" = ?`, authorID).
		Select(pg.Scan(&sum))

	if err != nil {
		return 0, fmt.Errorf("failed to sum post ratings: %w", err)
	}

	return sum, nil
}

// SumCommentRatings returns the sum of ratings over comments written by the
// user anywhere, 0 if none.
func (r *Repository) SumCommentRatings(ctx context.Context, userID int) (int, error) {
	var sum int
	err := r.db.ModelContext(ctx, (*Comment)(nil)).
		ColumnExpr(`COALESCE(SUM("t"."rating"), 0)`).
		Where(`"t"."userId" = ?`, userID).
		Select(pg.Scan(&sum))

	if err != nil {
		return 0, fmt.Errorf("failed to sum comment ratings: %w", err)
	}

	return sum, nil
}

// SumCommentRatingsOnAuthorPosts returns the sum of ratings over comments left
// on the author's posts by anyone, 0 if none.
func (r *Repository) SumCommentRatingsOnAuthorPosts(ctx context.Context, authorID int) (int, error) {
	var sum int
	err := r.db.ModelContext(ctx, (*Comment)(nil)).
		ColumnExpr(`COALESCE(SUM("t"."rating"), 0)`).
		Join(`JOIN "posts" AS "p" ON "p"."postId" = "t"."postId"`).
		Where(`"p"."authorId" = ?`, authorID).
		Select(pg.Scan(&sum))

	if err != nil {
		return 0, fmt.Errorf("failed to sum post comment ratings: %w", err)
	}

	return sum, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *Category) error {
	if _, err := r.db.ModelContext(ctx, category).Insert(); err != nil {
		return writeErr("insert category", err)
	}

	return nil
}

func (r *Repository) CategoryByID(ctx context.Context, categoryID int) (*Category, error) {
	category := &Category{}
	err := r.db.ModelContext(ctx, category).
		Where(`"t"."categoryId" = ?`, categoryID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return category, nil
}

func (r *Repository) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.ModelContext(ctx, &categories).
		OrderExpr(`"t"."name" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	return categories, nil
}

// DeleteCategory removes the category and every post link referencing it.
func (r *Repository) DeleteCategory(ctx context.Context, categoryID int) error {
	return r.InTx(ctx, func(tx *Repository) error {
		if _, err := tx.db.ModelContext(ctx, (*PostCategory)(nil)).
			Where(`"categoryId" = ?`, categoryID).
			Delete(); err != nil {
			return fmt.Errorf("delete category links: %w", err)
		}

		res, err := tx.db.ModelContext(ctx, (*Category)(nil)).
			Where(`"categoryId" = ?`, categoryID).
			Delete()
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		} else if res.RowsAffected() == 0 {
			return fmt.Errorf("delete category %d: %w", categoryID, ErrNotFound)
		}

		return nil
	})
}

// AddPostCategories links categories to the post. Existing links are kept.
func (r *Repository) AddPostCategories(ctx context.Context, postID int, categoryIDs []int) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	links := make([]PostCategory, len(categoryIDs))
	for i, id := range categoryIDs {
		links[i] = PostCategory{PostID: postID, CategoryID: id}
	}

	if _, err := r.db.ModelContext(ctx, &links).
		OnConflict("DO NOTHING").
		Insert(); err != nil {
		return writeErr("insert post categories", err)
	}

	return nil
}

func (r *Repository) RemovePostCategory(ctx context.Context, postID, categoryID int) error {
	if _, err := r.db.ModelContext(ctx, (*PostCategory)(nil)).
		Where(`"postId" = ?`, postID).
		Where(`"categoryId" = ?`, categoryID).
		Delete(); err != nil {
		return fmt.Errorf("delete post category: %w", err)
	}

	return nil
}

// PostCategories returns links with loaded categories for the given posts,
// ordered by category name.
func (r *Repository) PostCategories(ctx context.Context, postIDs []int) ([]PostCategory, error) {
	if len(postIDs) == 0 {
		return []PostCategory{}, nil
	}

	var links []PostCategory
	err := r.db.ModelContext(ctx, &links).
		Relation("Category").
		Where(`"t"."postId" IN (?)`, pg.In(postIDs)).
		OrderExpr(`"category"."name" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query post categories: %w", err)
	}

	return links, nil
}

type PostFilter struct {
	AuthorID      *int
	PostType      *string
	MinRating     *int
	CategoryID    *int
	CategoryName  *string
	OrderByRating bool
	Limit         int
	Offset        int
}

func (r *Repository) CreatePost(ctx context.Context, post *Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.PostType == "" {
		post.PostType = PostTypeArticle
	}

	if _, err := r.db.ModelContext(ctx, post).Insert(); err != nil {
		return writeErr("insert post", err)
	}

	return nil
}

func (r *Repository) PostByID(ctx context.Context, postID int) (*Post, error) {
	post := &Post{}
	err := r.db.ModelContext(ctx, post).
		Relation("Author").
		Relation("Author.User").
		Where(`"t"."postId" = ?`, postID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

// Posts retrieves posts matching the filter, newest first unless
// OrderByRating is set. MinRating is exclusive.
func (r *Repository) Posts(ctx context.Context, f PostFilter) ([]Post, error) {
	var posts []Post
	query := r.db.ModelContext(ctx, &posts).
		Relation("Author").
		Relation("Author.User")

	if f.AuthorID != nil {
		query = query.Where(`"t"."authorId" = ?`, *f.AuthorID)
	}

	if f.PostType != nil {
		query = query.Where(`"t"."postType" = ?`, *f.PostType)
	}

	if f.MinRating != nil {
		query = query.Where(`"t"."rating" > ?`, *f.MinRating)
	}

	if f.CategoryID != nil {
		query = query.Where(`EXISTS (SELECT 1 FROM "post_categories" AS "pc" WHERE "pc"."postId" = "t"."postId" AND "pc"."categoryId" = ?)`, *f.CategoryID)
	}

	if f.CategoryName != nil {
		query = query.Where(`EXISTS (SELECT 1 FROM "post_categories" AS "pc" JOIN "categories" AS "c" ON "c"."categoryId" = "pc"."categoryId" WHERE "pc"."postId" = "t"."postId" AND "c"."name" = ?)`, *f.CategoryName)
	}

	if f.OrderByRating {
		query = query.OrderExpr(`"t"."rating" DESC, "t"."postId" ASC`)
	} else {
		query = query.OrderExpr(`"t"."createdAt" DESC, "t"."postId" DESC`)
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	if err := query.Select(); err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	return posts, nil
}

// AddPostRating shifts the post rating by delta and returns the new value.
func (r *Repository) AddPostRating(ctx context.Context, postID, delta int) (int, error) {
	var rating int
	res, err := r.db.ModelContext(ctx, (*Post)(nil)).
		Set(`"rating" = "rating" + ?`, delta).
		Where(`"postId" = ?`, postID).
		Returning(`"rating"`).
		Update(pg.Scan(&rating))
	if err != nil {
		return 0, fmt.Errorf("update post rating: %w", err)
	} else if res.RowsAffected() == 0 {
		return 0, fmt.Errorf("update post %d rating: %w", postID, ErrNotFound)
	}

	return rating, nil
}

// DeletePost removes the post with its comments and category links.
func (r *Repository) DeletePost(ctx context.Context, postID int) error {
	return r.InTx(ctx, func(tx *Repository) error {
		post, err := tx.PostByID(ctx, postID)
		if err != nil {
			return err
		} else if post == nil {
			return fmt.Errorf("delete post %d: %w", postID, ErrNotFound)
		}

		return tx.deletePosts(ctx, `"postId" = ?`, postID)
	})
}

// deletePosts removes posts matching cond with their dependents. Must run
// inside a transaction.
func (r *Repository) deletePosts(ctx context.Context, cond string, args ...interface{}) error {
	postIDs := r.db.ModelContext(ctx, (*Post)(nil)).
		Column("postId").
		Where(cond, args...)

	if _, err := r.db.ModelContext(ctx, (*Comment)(nil)).
		Where(`"postId" IN (?)`, postIDs).
		Delete(); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}

	if _, err := r.db.ModelContext(ctx, (*PostCategory)(nil)).
		Where(`"postId" IN (?)`, postIDs).
		Delete(); err != nil {
		return fmt.Errorf("delete post categories: %w", err)
	}

	if _, err := r.db.ModelContext(ctx, (*Post)(nil)).
		Where(cond, args...).
		Delete(); err != nil {
		return fmt.Errorf("delete posts: %w", err)
	}

	return nil
}

type CommentFilter struct {
	PostID       *int
	UserID       *int
	PostAuthorID *int
}

func (r *Repository) CreateComment(ctx context.Context, comment *Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	if _, err := r.db.ModelContext(ctx, comment).Insert(); err != nil {
		return writeErr("insert comment", err)
	}

	return nil
}

func (r *Repository) CommentByID(ctx context.Context, commentID int) (*Comment, error) {
	comment := &Comment{}
	err := r.db.ModelContext(ctx, comment).
		Relation("User").
		Where(`"t"."commentId" = ?`, commentID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}

	return comment, nil
}

// Comments retrieves comments matching the filter, newest first.
func (r *Repository) Comments(ctx context.Context, f CommentFilter) ([]Comment, error) {
	var comments []Comment
	query := r.db.ModelContext(ctx, &comments).
		Relation("User")

	if f.PostID != nil {
		query = query.Where(`"t"."postId" = ?`, *f.PostID)
	}

	if f.UserID != nil {
		query = query.Where(`"t"."userId" = ?`, *f.UserID)
	}

	if f.PostAuthorID != nil {
		query = query.Where(`"t"."postId" IN (SELECT "postId" FROM "posts" WHERE "authorId" = ?)`, *f.PostAuthorID)
	}

	err := query.
		OrderExpr(`"t"."createdAt" DESC, "t"."commentId" DESC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	return comments, nil
}

// AddCommentRating shifts the comment rating by delta and returns the new value.
func (r *Repository) AddCommentRating(ctx context.Context, commentID, delta int) (int, error) {
	var rating int
	res, err := r.db.ModelContext(ctx, (*Comment)(nil)).
		Set(`"rating" = "rating" + ?`, delta).
		Where(`"commentId" = ?`, commentID).
		Returning(`"rating"`).
		Update(pg.Scan(&rating))
	if err != nil {
		return 0, fmt.Errorf("update comment rating: %w", err)
	} else if res.RowsAffected() == 0 {
		return 0, fmt.Errorf("update comment %d rating: %w", commentID, ErrNotFound)
	}

	return rating, nil
}

func (r *Repository) DeleteComment(ctx context.Context, commentID int) error {
	res, err := r.db.ModelContext(ctx, (*Comment)(nil)).
		Where(`"commentId" = ?`, commentID).
		Delete()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	} else if res.RowsAffected() == 0 {
		return fmt.Errorf("delete comment %d: %w", commentID, ErrNotFound)
	}

	return nil
}
