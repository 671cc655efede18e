package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/ai"
	"github.com/danilofortes/stackhabit/internal/api"
	"github.com/danilofortes/stackhabit/internal/auth"
	"github.com/danilofortes/stackhabit/internal/config"
	"github.com/danilofortes/stackhabit/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.NewStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	provider := auth.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer, store, logger)
	assistant := ai.New(cfg.OpenAI, logger)
	if assistant.Enabled() {
		logger.Infof("AI assistant enabled (model %s)", cfg.OpenAI.Model)
	} else {
		logger.Info("AI assistant disabled, using static fallbacks")
	}

	app := api.NewApp(logger, store, provider, assistant)
	r := api.Router(app, cfg)

	logger.Infof("server running on :%s (storage=%s)", cfg.Port, cfg.StorageBackend)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
