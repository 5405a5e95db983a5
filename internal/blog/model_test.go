package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/blog/internal/db"
)

func TestParsePostType(t *testing.T) {
	tests := []struct {
		in       string
		expected PostType
		wantErr  bool
	}{
		{in: "article", expected: PostTypeArticle},
		{in: "AR", expected: PostTypeArticle},
		{in: " News ", expected: PostTypeNews},
		{in: "nw", expected: PostTypeNews},
		{in: "blog", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePostType(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPostType_Codes(t *testing.T) {
	assert.Equal(t, db.PostTypeArticle, PostTypeArticle.Code())
	assert.Equal(t, db.PostTypeNews, PostTypeNews.Code())
	assert.Equal(t, PostTypeNews, postTypeFromCode(db.PostTypeNews))
	assert.Equal(t, PostType(0), postTypeFromCode("XX"))
	assert.False(t, PostType(0).Valid())
	assert.Equal(t, "news", PostTypeNews.String())
	assert.Equal(t, "Article", PostTypeArticle.Label())
}

func TestPost_Preview(t *testing.T) {
	short := Post{Post: db.Post{Text: "short text"}}
	assert.Equal(t, "short text", short.Preview())

	exact := Post{Post: db.Post{Text: strings.Repeat("a", previewLength)}}
	assert.Equal(t, exact.Text, exact.Preview())

	long := Post{Post: db.Post{Text: strings.Repeat("б", previewLength+10)}}
	assert.Equal(t, strings.Repeat("б", previewLength)+"...", long.Preview())
}

func TestPost_Caption(t *testing.T) {
	p := NewPost(&db.Post{Title: "Sports achievements", PostType: db.PostTypeArticle})
	assert.Equal(t, "Sports achievements (Article)", p.Caption())
}

func TestPostFilter_toDB(t *testing.T) {
	news := PostTypeNews
	filter, err := PostFilter{Type: &news, Page: 3, PageSize: 10, SortByRating: true}.toDB()
	require.NoError(t, err)
	require.NotNil(t, filter.PostType)
	assert.Equal(t, db.PostTypeNews, *filter.PostType)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 20, filter.Offset)
	assert.True(t, filter.OrderByRating)

	filter, err = PostFilter{PageSize: 5}.toDB()
	require.NoError(t, err)
	assert.Equal(t, 0, filter.Offset)

	_, err = PostFilter{Page: -1}.toDB()
	assert.ErrorIs(t, err, ErrValidation)

	bad := PostType(7)
	_, err = PostFilter{Type: &bad}.toDB()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPosts_SetCategories(t *testing.T) {
	posts := Posts{
		{Post: db.Post{ID: 1}},
		{Post: db.Post{ID: 2}},
	}
	posts.SetCategories([]db.PostCategory{
		{PostID: 1, CategoryID: 4, Category: &db.Category{ID: 4, Name: "Culture"}},
		{PostID: 1, CategoryID: 1, Category: &db.Category{ID: 1, Name: "Politics"}},
	})

	require.Len(t, posts[0].Categories, 2)
	assert.Equal(t, "Culture", posts[0].Categories[0].Name)
	assert.Equal(t, "Politics", posts[0].Categories[1].Name)
	assert.NotNil(t, posts[1].Categories)
	assert.Empty(t, posts[1].Categories)
	assert.Equal(t, []int{1, 2}, posts.IDs())
}
