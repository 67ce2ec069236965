package main

import (
	"net"
	"net/http"
	"time"

	"vrent/shared/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	var cfg webConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load web config")
	}

	handler, err := newServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build web server")
	}

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("root", cfg.Root).Str("upstream", cfg.APIUpstream).Str("port", cfg.Port).Msg("web server listening")

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("web server stopped")
	}
}
