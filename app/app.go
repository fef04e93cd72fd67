package app

import (
	"context"

	"log/slog"

	"github.com/grocerly/reports-manager/config"
	httpapi "github.com/grocerly/reports-manager/internal/api/http"
	"github.com/grocerly/reports-manager/internal/apisrv/auth"
	"github.com/grocerly/reports-manager/internal/dependency"
	"github.com/grocerly/reports-manager/internal/store"
)

// App is the main application
type App struct {
	hs *httpapi.Server
	db dependency.Repository
	c  *config.Config
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c: c,
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting reports manager")

	db, err := store.New(ctx, a.c.DB, a.c.Report)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql",
			slog.String("err", err.Error()),
		)
		return err
	}
	a.db = db

	authS, err := auth.New(&a.c.Auth)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create auth server",
			slog.String("err", err.Error()),
		)
		return err
	}

	a.hs = httpapi.New(&a.c.HTTP, a.db, authS, a.c.Report)
	if err := a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	return nil
}

// Stop drains the http server and closes the database.
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Done returns a channel that is closed when the http server exits.
func (a *App) Done() <-chan struct{} {
	if a.hs == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return a.hs.Done()
}
