package main

import (
	"projecttracker/backend/config"
	"projecttracker/backend/routes"
	"projecttracker/backend/services"
	"projecttracker/backend/utils"

	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Error initializing database")
	}

	notifier := services.NewNotifier(cfg.Mail, logger)

	app := routes.NewApp(cfg, logger)
	routes.SetupRoutes(app, db, cfg, logger, notifier)

	logger.Info().Str("port", cfg.ServerPort).Msg("Starting server")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal().Err(err).Msg("Server stopped")
	}
}
