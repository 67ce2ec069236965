package main

import (
	"vrent/config"
	"vrent/di"
	"vrent/helper"
	"vrent/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.Init(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	app, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	app.Run()
}
