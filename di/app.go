package di

import (
	"context"

	"vrent/infras/kafka"
	"vrent/infras/otel"
	"vrent/infras/postgres"
	"vrent/internal/jobs"
	"vrent/transport/http"
)

// App is everything a process needs to serve the API and run background jobs.
type App struct {
	HTTP      *http.HTTP
	Scheduler *jobs.Scheduler
	DB        *postgres.Connection
	Producer  kafka.Client
	Otel      otel.Otel
}

// Run starts the scheduler and blocks serving HTTP until a shutdown signal.
func (a *App) Run() {
	a.Scheduler.Start()

	a.HTTP.OnShutdown(
		func(ctx context.Context) error {
			a.Scheduler.Stop(ctx)

			return nil
		},
		func(context.Context) error { return a.Producer.Close() },
		func(context.Context) error { return a.DB.Close() },
		a.Otel.Shutdown,
	)

	a.HTTP.Serve()
}
