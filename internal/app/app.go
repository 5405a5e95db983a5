package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/blog/config"
	"github.com/daniilsolovey/blog/internal/blog"
	"github.com/daniilsolovey/blog/internal/db"
	"github.com/daniilsolovey/blog/internal/rest"
	"github.com/daniilsolovey/blog/internal/rpc"
)

const rpcPath = "/rpc/"

type App struct {
	DB      *db.Repository
	Manager *blog.Manager
	Logger  *slog.Logger
	Echo    *echo.Echo
	Config  config.Config
}

func New(cfg config.Config, dbConnect *pg.DB, logger *slog.Logger) *App {
	if cfg.App.LogQueries {
		dbConnect.AddQueryHook(db.NewQueryHook(logger))
	}

	repo := db.New(dbConnect)
	manager := blog.NewManager(repo, logger)

	e := rest.NewBlogHandler(manager, logger).RegisterRoutes()
	e.Any(rpcPath, echo.WrapHandler(rpc.New(logger, manager)))

	return &App{
		DB:      repo,
		Manager: manager,
		Logger:  logger,
		Echo:    e,
		Config:  cfg,
	}
}

func (a *App) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.Config.App.Host, a.Config.App.Port)
	a.Logger.Info("service started", "addr", addr)

	err := a.Echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	if cerr := a.DB.Close(); cerr != nil {
		a.Logger.Error("failed to close database", "error", cerr)
	}

	return err
}
