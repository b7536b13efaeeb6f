package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bloghub-dev/bloghub/internal/markdown"
	"github.com/bloghub-dev/bloghub/internal/service"
	"github.com/bloghub-dev/bloghub/shared/config"
	"github.com/bloghub-dev/bloghub/shared/logger"
)

// Pinger reports database liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth     service.AuthService
	posts    service.PostService
	comments service.CommentService
	renderer *markdown.Renderer
	db       Pinger
	cfg      *config.Config
}

func New(auth service.AuthService, posts service.PostService, comments service.CommentService, renderer *markdown.Renderer, db Pinger, cfg *config.Config) *Handler {
	return &Handler{
		auth:     auth,
		posts:    posts,
		comments: comments,
		renderer: renderer,
		db:       db,
		cfg:      cfg,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response body", "error", err)
	}
}
