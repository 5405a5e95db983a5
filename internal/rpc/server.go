package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/blog/internal/blog"
)

func New(logger *slog.Logger, manager *blog.Manager) *zenrpc.Server {
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true})
	rpcServer.Register("blog", NewBlogService(manager))
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, "blog", nil))

	return rpcServer
}
