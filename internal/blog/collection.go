package blog

import "github.com/daniilsolovey/blog/internal/db"

type (
	Authors    []Author
	Categories []Category
	Posts      []Post
	Comments   []Comment
)

func Map[From, To any](list []From, converter func(*From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(&list[i])
	}
	return result
}

func NewAuthors(in []db.Author) Authors {
	return Map(in, NewAuthor)
}

func NewCategories(in []db.Category) Categories {
	return Map(in, NewCategory)
}

func NewPosts(in []db.Post) Posts {
	return Map(in, NewPost)
}

func NewComments(in []db.Comment) Comments {
	return Map(in, NewComment)
}

func (ll Posts) IDs() []int {
	ids := make([]int, len(ll))
	for i := range ll {
		ids[i] = ll[i].ID
	}
	return ids
}

// SetCategories distributes loaded post links over the posts keeping the
// link order. Posts without links get an empty slice.
func (ll Posts) SetCategories(links []db.PostCategory) {
	index := make(map[int][]Category, len(ll))
	for i := range links {
		if links[i].Category == nil {
			continue
		}
		index[links[i].PostID] = append(index[links[i].PostID], NewCategory(links[i].Category))
	}

	for i := range ll {
		if cc, ok := index[ll[i].ID]; ok {
			ll[i].Categories = cc
		} else {
			ll[i].Categories = []Category{}
		}
	}
}
