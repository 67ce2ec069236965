package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vrent/config"
	otelMocks "vrent/infras/otel/mocks"
	"vrent/infras/postgres"
	"vrent/internal/handlers/portal"
	"vrent/transport/http/middleware"
	"vrent/transport/http/router"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, cfg *config.Config, db *postgres.Connection) *HTTP {
	t.Helper()

	ot := otelMocks.NewOtel()
	handlers := router.DomainHandlers{
		Portal: portal.New(nil, middleware.NewPortalSessionMiddleware(nil, ot, cfg), cfg, ot),
	}

	return New(cfg, router.New(handlers), middleware.NewAppMiddleware(ot, cfg, nil), db)
}

func get(h *HTTP, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

	return recorder
}

func TestHealth(t *testing.T) {
	h := newServer(t, &config.Config{}, nil)

	recorder := get(h, "/health")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
	assert.Equal(t, ServerStateReady, h.State())
}

func TestHealth_GracePeriod(t *testing.T) {
	h := newServer(t, &config.Config{}, nil)
	get(h, "/health")

	h.state.Store(int32(ServerStateInGracePeriod))

	recorder := get(h, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "SERVER PREPARING TO SHUT DOWN")
}

func TestHealth_DatabaseDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	h := newServer(t, &config.Config{}, postgres.NewFromDB(sqlx.NewDb(db, "sqlmock")))

	recorder := get(h, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "SERVER UNHEALTHY")
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://backoffice.example.com"}
	cfg.App.CORS.AllowedMethods = []string{http.MethodGet, http.MethodPatch}

	h := newServer(t, cfg, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/vehicles", nil)
	req.Header.Set("Origin", "https://backoffice.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, req)

	assert.Equal(t, "https://backoffice.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	h := newServer(t, &config.Config{}, nil)

	assert.Equal(t, http.StatusNotFound, get(h, "/v2/vehicles").Code)
}

func TestShutdownRunsHooks(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = "development"

	h := newServer(t, cfg, nil)
	h.setup()

	var ran []string

	h.OnShutdown(
		func(context.Context) error {
			ran = append(ran, "scheduler")

			return nil
		},
		func(context.Context) error {
			ran = append(ran, "kafka")

			return errors.New("already closed")
		},
	)

	h.shutdown(&http.Server{Handler: h.mux})

	assert.Equal(t, []string{"scheduler", "kafka"}, ran)
	assert.Equal(t, ServerStateInCleanupPeriod, h.State())
}
