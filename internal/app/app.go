package app

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/memberbase/member-registry/internal/config"
	"github.com/memberbase/member-registry/internal/observability"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	Redis         redis.UniversalClient
	DB            *gorm.DB
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, redisClient redis.UniversalClient, db *gorm.DB) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Observability: runtime, Redis: redisClient, DB: db}
}
