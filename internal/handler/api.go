package handler

import (
	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/service"
	"github.com/rs/zerolog"
)

// API bundles the services the HTTP layer depends on.
type API struct {
	repo   content.Repository
	views  *service.ViewService
	chat   *service.ChatService
	logger zerolog.Logger
}

// NewAPI creates the handler set.
func NewAPI(repo content.Repository, views *service.ViewService, chat *service.ChatService, logger zerolog.Logger) *API {
	return &API{repo: repo, views: views, chat: chat, logger: logger}
}
