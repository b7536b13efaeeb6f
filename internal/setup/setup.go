// Package setup assembles the application dependency graph.
package setup

import (
	"context"
	"net/http"

	"github.com/bloghub-dev/bloghub/internal/handler"
	"github.com/bloghub-dev/bloghub/internal/markdown"
	"github.com/bloghub-dev/bloghub/internal/moderation"
	"github.com/bloghub-dev/bloghub/internal/router"
	"github.com/bloghub-dev/bloghub/internal/service"
	"github.com/bloghub-dev/bloghub/internal/storage/pg"
	"github.com/bloghub-dev/bloghub/shared/config"
	"github.com/bloghub-dev/bloghub/shared/jwt"
	"github.com/bloghub-dev/bloghub/shared/middleware"
)

type Dependencies struct {
	Storage   *pg.Storage
	Scheduler *service.AutoReplyScheduler
	Router    http.Handler
}

// New wires storage, services, the auto-reply scheduler, handlers and the
// router. ctx bounds the scheduler's background goroutines.
func New(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	authMw := middleware.NewAuth(jwtService)

	moderationClient := moderation.New(cfg.Private.Moderation.Endpoint, cfg.Private.Moderation.Token)
	scheduler := service.NewAutoReplyScheduler(ctx, storage)

	authService := service.NewAuth(storage, jwtService)
	postService := service.NewPost(storage, moderationClient)
	commentService := service.NewComment(storage, moderationClient, scheduler)

	h := handler.New(authService, postService, commentService, markdown.New(), storage, cfg)

	return &Dependencies{
		Storage:   storage,
		Scheduler: scheduler,
		Router:    router.New(h, authMw, cfg),
	}, nil
}

func (d *Dependencies) Cleanup() error {
	return d.Storage.Cleanup()
}
