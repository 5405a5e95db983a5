package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmkteam/zenrpc/v2"
)

func TestBlogService_Invoke(t *testing.T) {
	s := NewBlogService(nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		method   string
		params   string
		wantCode int
	}{
		{name: "unknown method", method: "ratepost", params: `{}`, wantCode: zenrpc.MethodNotFound},
		{name: "invalid params", method: RPC.BlogService.LikePost, params: `{"id":"one"}`, wantCode: zenrpc.InvalidParams},
		{name: "like zero id", method: RPC.BlogService.LikePost, params: `{"id":0}`, wantCode: 400},
		{name: "dislike negative id", method: RPC.BlogService.DislikePost, params: `[-1]`, wantCode: 400},
		{name: "like comment missing id", method: RPC.BlogService.LikeComment, params: `{}`, wantCode: 400},
		{name: "dislike comment zero id", method: RPC.BlogService.DislikeComment, params: `[0]`, wantCode: 400},
		{name: "update rating zero id", method: RPC.BlogService.UpdateRating, params: `{"authorId":0}`, wantCode: 400},
		{name: "posts bad type", method: RPC.BlogService.Posts, params: `{"filter":{"type":"poem"}}`, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Invoke(ctx, tt.method, json.RawMessage(tt.params))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBlogService_SMD(t *testing.T) {
	info := BlogService{}.SMD()

	for _, name := range []string{"LikePost", "DislikePost", "LikeComment", "DislikeComment", "UpdateRating", "BestPost", "Posts"} {
		assert.Contains(t, info.Methods, name)
	}
	assert.Equal(t, "id", info.Methods["LikePost"].Parameters[0].Name)
}

func TestPostFilter_ToModel(t *testing.T) {
	page, pageSize, authorID := 2, 5, 1
	postType := "news"

	filter, err := PostFilter{
		AuthorID:     &authorID,
		Type:         &postType,
		SortByRating: true,
		Page:         &page,
		PageSize:     &pageSize,
	}.ToModel()
	require.NoError(t, err)

	assert.Equal(t, &authorID, filter.AuthorID)
	require.NotNil(t, filter.Type)
	assert.Equal(t, "news", filter.Type.String())
	assert.True(t, filter.SortByRating)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 5, filter.PageSize)
}
