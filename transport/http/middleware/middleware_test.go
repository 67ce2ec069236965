package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vrent/config"
	otelMocks "vrent/infras/otel/mocks"
	"vrent/internal/domains/portal/mocks"
	"vrent/internal/domains/portal/model"
	"vrent/shared/cache"
	cacheMocks "vrent/shared/cache/mocks"
	"vrent/shared/constant"
	"vrent/shared/failure"
	"vrent/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func okHandler(t *testing.T, check func(r *http.Request)) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func TestActor(t *testing.T) {
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

	var actor any

	handler := app.Actor(okHandler(t, func(r *http.Request) {
		actor = r.Context().Value(constant.ContextKeyActor)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/rentals", nil)
	req.Header.Set(constant.RequestHeaderActor, "front-desk")

	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "front-desk", actor)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/rentals", nil))
	assert.Nil(t, actor)
}

func TestRequestID(t *testing.T) {
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

	var requestID any

	handler := app.RequestID(okHandler(t, func(r *http.Request) {
		requestID = r.Context().Value(constant.ContextKeyRequestID)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/vehicles", nil)
	req.Header.Set(constant.RequestHeaderRequestID, "req-42")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, "req-42", recorder.Header().Get(constant.RequestHeaderRequestID))
}

func TestTracing(t *testing.T) {
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

	recorder := httptest.NewRecorder()
	app.Tracing(okHandler(t, nil)).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func limiterConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name     string
		getErr   error
		stored   int
		saveErr  error
		wantCode int
		wantSave bool
	}{
		{name: "first request", getErr: cache.Nil, wantCode: http.StatusNoContent, wantSave: true},
		{name: "under the limit", stored: 1, wantCode: http.StatusNoContent, wantSave: true},
		{name: "over the limit", stored: 2, wantCode: http.StatusTooManyRequests},
		{name: "redis down fails open", getErr: errors.New("connection refused"), wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := cacheMocks.NewMockRedisCache(ctrl)

			redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, value any) error {
					*value.(*int) = tt.stored

					return tt.getErr
				})

			if tt.wantSave {
				redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), tt.stored+1, 60).Return(tt.saveErr)
			}

			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(), redisCache)

			recorder := httptest.NewRecorder()
			app.RateLimit()(okHandler(t, nil)).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/vehicles", nil))

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

	recorder := httptest.NewRecorder()
	app.RateLimit()(okHandler(t, nil)).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/vehicles", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func portalConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Portal.SessionCookieName = "vrent_portal"

	return cfg
}

func TestRequireSession_Bearer(t *testing.T) {
	ctrl := gomock.NewController(t)
	portal := mocks.NewMockPortalService(ctrl)

	portal.EXPECT().Authenticate("signed-token").Return(model.Session{CustomerID: "c-1", ExpiresAt: time.Now().Add(time.Hour)}, nil)

	var session model.Session

	handler := middleware.NewPortalSessionMiddleware(portal, otelMocks.NewOtel(), portalConfig()).
		RequireSession(okHandler(t, func(r *http.Request) {
			var ok bool
			session, ok = model.SessionFromContext(r.Context())
			require.True(t, ok)
		}))

	req := httptest.NewRequest(http.MethodGet, "/v1/portal/profile", nil)
	req.Header.Set(constant.RequestHeaderAuthorization, "Bearer signed-token")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "c-1", session.CustomerID)
}

func TestRequireSession_Cookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	portal := mocks.NewMockPortalService(ctrl)

	portal.EXPECT().Authenticate("cookie-token").Return(model.Session{CustomerID: "c-2"}, nil)

	handler := middleware.NewPortalSessionMiddleware(portal, otelMocks.NewOtel(), portalConfig()).RequireSession(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/portal/profile", nil)
	req.AddCookie(&http.Cookie{Name: "vrent_portal", Value: "cookie-token"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRequireSession_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		header string
		auth   error
	}{
		{name: "no token"},
		{name: "malformed header", header: "Token abc"},
		{name: "expired token", header: "Bearer stale", auth: failure.Unauthorized("token has expired")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			portal := mocks.NewMockPortalService(ctrl)

			if tt.auth != nil {
				portal.EXPECT().Authenticate("stale").Return(model.Session{}, tt.auth)
			}

			handler := middleware.NewPortalSessionMiddleware(portal, otelMocks.NewOtel(), portalConfig()).
				RequireSession(okHandler(t, func(*http.Request) { t.Error("handler must not run") }))

			req := httptest.NewRequest(http.MethodGet, "/v1/portal/profile", nil)
			if tt.header != "" {
				req.Header.Set(constant.RequestHeaderAuthorization, tt.header)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}
