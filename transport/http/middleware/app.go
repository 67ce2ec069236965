package middleware

import (
	"context"
	"fmt"
	"net/http"

	"vrent/config"
	"vrent/infras/otel"
	"vrent/shared/cache"
	"vrent/shared/constant"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	RequestID(next http.Handler) http.Handler
	Actor(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, fmt.Sprintf("%s %s", r.Method, r.URL.Path))
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.method":     r.Method,
			"http.user_agent": a.getUA(r),
			"http.host":       r.Host,
			"http.source":     a.getClientIP(r),
			"http.request_id": chiMiddleware.GetReqID(ctx),
		})

		wrapped := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		attributes := map[string]any{"http.status_code": wrapped.Status()}
		if routeContext := chi.RouteContext(r.Context()); routeContext != nil {
			attributes["http.route"] = routeContext.RoutePattern()
		}

		scope.SetAttributes(attributes)

		if wrapped.Status() >= http.StatusInternalServerError {
			scope.TraceError(fmt.Errorf("%s %s returned %d", r.Method, r.URL.Path, wrapped.Status()))
		}
	})
}

// RequestID honours an inbound X-Request-ID and echoes the id back.
func (a *appMiddleware) RequestID(next http.Handler) http.Handler {
	return chiMiddleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chiMiddleware.GetReqID(r.Context())

		w.Header().Set(constant.RequestHeaderRequestID, id)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), constant.ContextKeyRequestID, id)))
	}))
}

// Actor records who performed a staff write. Requests without the header are
// attributed to the system account by shared.ActorFromContext.
func (a *appMiddleware) Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(constant.RequestHeaderActor)
		if actor == constant.Empty {
			next.ServeHTTP(w, r)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), constant.ContextKeyActor, actor)))
	})
}
