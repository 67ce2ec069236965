package handler

import (
	"net/http"
	"sync"

	"vrent/config"
	"vrent/di"
	"vrent/shared/logger"
	"vrent/transport/http/response"

	"github.com/rs/zerolog/log"
)

var (
	initOnce sync.Once
	app      *di.App
	initErr  error
)

// Handler is the serverless entry point. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	initOnce.Do(func() {
		logger.Init(config.Get())

		app, initErr = di.InitializeService()
		if initErr != nil {
			log.Error().Err(initErr).Msg("failed to initialize service")
		}
	})

	if initErr != nil {
		response.WithError(w, initErr)

		return
	}

	app.HTTP.ServeHTTP(w, r)
}
