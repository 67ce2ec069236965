package dashboard

import (
	"net/http"

	"vrent/infras/otel"
	"vrent/internal/domains/dashboard/service"
	"vrent/shared/constant"
	"vrent/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Dashboard
	otel    otel.Otel
}

func New(service service.Dashboard, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/dashboard", handler.GetStats)
}

// GetStats
// @Summary Get back-office dashboard figures
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Data[dto.StatsResponse] "Fleet, customer and revenue figures"
// @Failure 500 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/dashboard [get]
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}
