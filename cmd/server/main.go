package main

import (
	"fmt"
	"log"

	"github.com/labelforge/backend/config"
	httpDelivery "github.com/labelforge/backend/internal/delivery/http"
	"github.com/labelforge/backend/internal/infrastructure/render"
	"github.com/labelforge/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Log)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting labelforge backend v1.0.0")

	// Label templates: embedded defaults, optionally overridden from disk.
	var renderer *render.Renderer
	if cfg.Templates.Dir != "" {
		renderer, err = render.NewFromDir(cfg.Templates.Dir)
	} else {
		renderer, err = render.New()
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load label templates")
	}
	logger.Info().Strs("templates", renderer.TemplateIDs()).Msg("label templates loaded")

	// Usecase layer: the three regional rule sets behind one service.
	labelService := usecase.NewLabelService(renderer, logger)

	// HTTP delivery
	handler := httpDelivery.NewHandler(labelService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
