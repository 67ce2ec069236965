package middleware

import (
	"errors"
	"net/http"

	"vrent/config"
	"vrent/infras/jwt"
	"vrent/infras/otel"
	"vrent/internal/domains/portal/model"
	"vrent/internal/domains/portal/service"
	"vrent/shared/constant"
	"vrent/shared/failure"
	"vrent/transport/http/response"
)

// PortalSession guards the customer portal. The session token is read from
// the Authorization header first and the session cookie second.
type PortalSession interface {
	RequireSession(next http.Handler) http.Handler
}

type portalSessionImpl struct {
	portal service.Portal
	otel   otel.Otel
	cfg    *config.Config
}

func NewPortalSessionMiddleware(portal service.Portal, otel otel.Otel, cfg *config.Config) PortalSession {
	return &portalSessionImpl{
		portal: portal,
		otel:   otel,
		cfg:    cfg,
	}
}

func (m *portalSessionImpl) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "portal_session.middleware")

		scope.SetAttributes(map[string]any{
			"middleware.type": "portal_session",
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
		})

		token, err := m.token(request)
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		session, err := m.portal.Authenticate(token)
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.SetAttribute("portal.customer_id", session.CustomerID)
		scope.End()

		next.ServeHTTP(writer, request.WithContext(model.WithSession(ctx, session)))
	})
}

func (m *portalSessionImpl) token(request *http.Request) (string, error) {
	header := request.Header.Get(constant.RequestHeaderAuthorization)
	if header != constant.Empty {
		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			return constant.Empty, failure.Unauthorized("invalid authorization header format") // nolint:wrapcheck
		}

		return token, nil
	}

	cookie, err := request.Cookie(m.cfg.Portal.SessionCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return constant.Empty, failure.Unauthorized("missing portal session") // nolint:wrapcheck
		}

		return constant.Empty, failure.Unauthorized(err.Error()) // nolint:wrapcheck
	}

	return cookie.Value, nil
}
