package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"vrent/config"
	"vrent/infras/postgres"
	"vrent/shared/constant"
	"vrent/transport/http/middleware"
	"vrent/transport/http/response"
	"vrent/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	healthPingTimeout = 2 * time.Second
)

// ShutdownHook releases a resource once the server has stopped accepting requests.
type ShutdownHook func(ctx context.Context) error

type HTTP struct {
	Config     *config.Config
	Router     router.Router
	Middleware middleware.AppMiddleware
	DB         *postgres.Connection

	state   atomic.Int32
	mux     *chi.Mux
	hooks   []ShutdownHook
	signals chan os.Signal
}

func New(cfg *config.Config, r router.Router, appMiddleware middleware.AppMiddleware, db *postgres.Connection) *HTTP {
	return &HTTP{
		Config:     cfg,
		Router:     r,
		Middleware: appMiddleware,
		DB:         db,
	}
}

// OnShutdown registers hooks run in order after the listener is closed.
func (h *HTTP) OnShutdown(hooks ...ShutdownHook) {
	h.hooks = append(h.hooks, hooks...)
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) Serve() {
	h.setup()

	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	h.signals = make(chan os.Signal, 1)
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting up HTTP server.")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-h.signals

	h.shutdown(server)
}

// ServeHTTP lets the whole API run behind a single serverless function.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.mux == nil {
		h.setup()
	}

	h.mux.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.RealIP)
	h.mux.Use(h.Middleware.RequestID)
	h.mux.Use(chiMiddleware.Recoverer)

	if h.Config.App.CORS.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	h.mux.Get("/health", h.health)

	h.mux.Group(func(r chi.Router) {
		r.Use(h.Middleware.Tracing)
		r.Use(h.Middleware.RateLimit())
		r.Use(h.Middleware.Actor)

		h.Router.SetupRoutes(r)
	})

	h.state.Store(int32(ServerStateReady))
}

func (h *HTTP) health(w http.ResponseWriter, r *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := h.DB.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			response.WithUnhealthy(w)

			return
		}
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

func (h *HTTP) shutdown(server *http.Server) {
	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		shutdownConfig.GracePeriodSeconds = 0
		shutdownConfig.CleanupPeriodSeconds = 0
	} else {
		log.Info().Msg("Received SIGTERM.")
	}

	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second+time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not drain in time")
	}

	for _, hook := range h.hooks {
		if err := hook(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown hook failed")
		}
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
