package portal

import (
	"net/http"

	"vrent/config"
	"vrent/infras/otel"
	"vrent/internal/domains/portal/model"
	"vrent/internal/domains/portal/model/dto"
	"vrent/internal/domains/portal/service"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	"vrent/shared/validator"
	"vrent/transport/http/middleware"
	"vrent/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var errNoSession = failure.Unauthorized("missing portal session")

type Handler struct {
	service    service.Portal
	middleware middleware.PortalSession
	cfg        *config.Config
	otel       otel.Otel
}

func New(service service.Portal, middleware middleware.PortalSession, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		cfg:        cfg,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/portal", func(routerGroup chi.Router) {
		routerGroup.Post("/sessions", handler.Login)
		routerGroup.Delete("/sessions", handler.Logout)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(handler.middleware.RequireSession)

			protected.Get("/me", handler.GetProfile)
			protected.Patch("/me", handler.UpdateProfile)
			protected.Get("/me/rentals", handler.GetRentals)
		})
	})
}

// Login opens a portal session for the customer owning the tax id.
// @Summary Log into the customer portal
// @Description The token is returned in the body and also set as an http-only cookie.
// @Tags Portal
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 201 {object} response.Data[jwt.Session] "Session opened"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/portal/sessions [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	session, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("portal login rejected")

		response.WithError(w, err)

		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     handler.cfg.Portal.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   handler.cfg.Server.Env == constant.ServerEnvProduction,
		SameSite: http.SameSiteLaxMode,
	})

	scope.AddEvent("Portal session opened")

	response.WithJSON(w, http.StatusCreated, session)
}

// Logout
// @Summary Log out of the customer portal
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Message "Session closed"
// @Router /v1/portal/sessions [delete]
func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Logout")
	defer scope.End()

	http.SetCookie(w, &http.Cookie{
		Name:     handler.cfg.Portal.SessionCookieName,
		Value:    constant.Empty,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.cfg.Server.Env == constant.ServerEnvProduction,
		SameSite: http.SameSiteLaxMode,
	})

	response.WithMessage(w, http.StatusOK, "Session closed")
}

// GetProfile
// @Summary Get the logged-in customer
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Data[customerDto.CustomerResponse] "Profile"
// @Failure 401 {object} response.Error
// @Router /v1/portal/me [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProfile")
	defer scope.End()

	session, ok := model.SessionFromContext(ctx)
	if !ok {
		response.WithError(w, errNoSession)

		return
	}

	profile, err := handler.service.Profile(ctx, session)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get portal profile")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, profile)
}

// UpdateProfile
// @Summary Update the logged-in customer's contact details
// @Description Name, tax id and birth date can only be changed by staff.
// @Tags Portal
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Data[customerDto.CustomerResponse] "Updated profile"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/portal/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProfile")
	defer scope.End()

	session, ok := model.SessionFromContext(ctx)
	if !ok {
		response.WithError(w, errNoSession)

		return
	}

	req := dto.UpdateProfileRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	profile, err := handler.service.UpdateProfile(ctx, session, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update portal profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Portal profile updated")

	response.WithJSON(w, http.StatusOK, profile)
}

// GetRentals
// @Summary Get the logged-in customer's rentals
// @Tags Portal
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.RentalsResponse] "Rentals with lifetime stats"
// @Failure 401 {object} response.Error
// @Router /v1/portal/me/rentals [get]
// @Security BearerAuth
func (handler *Handler) GetRentals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRentals")
	defer scope.End()

	session, ok := model.SessionFromContext(ctx)
	if !ok {
		response.WithError(w, errNoSession)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rentals, err := handler.service.Rentals(ctx, session, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get portal rentals")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rentals)
}
