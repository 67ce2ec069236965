package rental

import (
	"net/http"

	"vrent/infras/otel"
	"vrent/internal/domains/rental/model/dto"
	"vrent/internal/domains/rental/service"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	"vrent/shared/validator"
	"vrent/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Rental
	otel    otel.Otel
}

func New(service service.Rental, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rentals", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRental)
		routerGroup.Get("/", handler.GetRentals)
		routerGroup.Get("/active", handler.GetActiveRentals)
		routerGroup.Get("/pending", handler.GetPendingRentals)
		routerGroup.Get("/customer/{customerID}", handler.GetRentalsByCustomer)
		routerGroup.Get("/vehicle/{vehicleID}", handler.GetRentalsByVehicle)
		routerGroup.Get("/{id}", handler.GetRentalByID)
		routerGroup.Patch("/{id}", handler.UpdateRental)
		routerGroup.Patch("/{id}/activate", handler.ActivateRental)
		routerGroup.Patch("/{id}/complete", handler.CompleteRental)
		routerGroup.Patch("/{id}/cancel", handler.CancelRental)
		routerGroup.Delete("/{id}", handler.DeleteRental)
	})
}

// CreateRental books a vehicle for a customer.
// @Summary Create a rental
// @Description Quote and book an available vehicle. The rental starts pending and the vehicle is taken off the market.
// @Tags Rental
// @Accept json
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param request body dto.CreateRentalRequest true "Create Rental Request"
// @Success 201 {object} response.Data[dto.RentalResponse] "Rental created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rentals [post]
func (handler *Handler) CreateRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRental")
	defer scope.End()

	req := dto.CreateRentalRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	rental, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create rental")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental created successfully")

	response.WithJSON(w, http.StatusCreated, rental)
}

// GetRentals lists rentals.
// @Summary Get all rentals
// @Tags Rental
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "pending, active, completed or cancelled"
// @Success 200 {object} response.Data[dto.GetRentalsResponse] "List of rentals"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rentals [get]
func (handler *Handler) GetRentals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRentals")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.RentalFilter{}
	if err := filter.FromRequest(r); err != nil {
		err = failure.BadRequest(err)

		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	rentals, err := handler.service.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rentals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rentals retrieved successfully")

	response.WithJSON(w, http.StatusOK, rentals)
}

// GetActiveRentals
// @Summary Get active rentals
// @Tags Rental
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetRentalsResponse] "List of rentals"
// @Failure 500 {object} response.Error
// @Router /v1/rentals/active [get]
func (handler *Handler) GetActiveRentals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActiveRentals")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rentals, err := handler.service.Active(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get active rentals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rentals retrieved successfully")

	response.WithJSON(w, http.StatusOK, rentals)
}

// GetPendingRentals
// @Summary Get pending rentals
// @Tags Rental
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetRentalsResponse] "List of rentals"
// @Failure 500 {object} response.Error
// @Router /v1/rentals/pending [get]
func (handler *Handler) GetPendingRentals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPendingRentals")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rentals, err := handler.service.Pending(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pending rentals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rentals retrieved successfully")

	response.WithJSON(w, http.StatusOK, rentals)
}

// GetRentalsByCustomer
// @Summary Get rentals of a customer
// @Description Returns 404 when the customer does not exist.
// @Tags Rental
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetRentalsResponse] "List of rentals"
// @Failure 500 {object} response.Error
// @Router /v1/rentals/customer/{customerID} [get]
func (handler *Handler) GetRentalsByCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRentalsByCustomer")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rentals, err := handler.service.ByCustomer(ctx, chi.URLParam(r, constant.RequestParamCustomerID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rentals by customer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rentals retrieved successfully")

	response.WithJSON(w, http.StatusOK, rentals)
}

// GetRentalsByVehicle
// @Summary Get rentals of a vehicle
// @Tags Rental
// @Produce json
// @Param vehicleID path string true "Vehicle ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetRentalsResponse] "List of rentals"
// @Failure 500 {object} response.Error
// @Router /v1/rentals/vehicle/{vehicleID} [get]
func (handler *Handler) GetRentalsByVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRentalsByVehicle")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rentals, err := handler.service.ByVehicle(ctx, chi.URLParam(r, constant.RequestParamVehicleID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rentals by vehicle")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rentals retrieved successfully")

	response.WithJSON(w, http.StatusOK, rentals)
}

// GetRentalByID
// @Summary Get a rental by ID
// @Tags Rental
// @Produce json
// @Param id path string true "Rental ID"
// @Success 200 {object} response.Data[dto.RentalResponse] "Rental details"
// @Failure 404 {object} response.Error
// @Router /v1/rentals/{id} [get]
func (handler *Handler) GetRentalByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRentalByID")
	defer scope.End()

	rental, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rental by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental retrieved successfully")

	response.WithJSON(w, http.StatusOK, rental)
}

// UpdateRental edits dates or notes of a pending or active rental.
// @Summary Update a rental
// @Description Changing the dates recomputes the total with the daily rate frozen at booking time.
// @Tags Rental
// @Accept json
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param id path string true "Rental ID"
// @Param request body dto.UpdateRentalRequest true "Update Rental Request"
// @Success 200 {object} response.Data[dto.RentalResponse] "Updated rental"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/rentals/{id} [patch]
func (handler *Handler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRental")
	defer scope.End()

	req := dto.UpdateRentalRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	rental, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update rental")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental updated successfully")

	response.WithJSON(w, http.StatusOK, rental)
}

// ActivateRental
// @Summary Activate a rental
// @Description Moves a pending rental to active.
// @Tags Rental
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param id path string true "Rental ID"
// @Success 200 {object} response.Data[dto.RentalResponse] "Rental after the transition"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rentals/{id}/activate [patch]
func (handler *Handler) ActivateRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ActivateRental")
	defer scope.End()

	rental, err := handler.service.Activate(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to activate rental")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental activated successfully")

	response.WithJSON(w, http.StatusOK, rental)
}

// CompleteRental
// @Summary Complete a rental
// @Description Closes an active rental and releases the vehicle.
// @Tags Rental
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param id path string true "Rental ID"
// @Success 200 {object} response.Data[dto.RentalResponse] "Rental after the transition"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rentals/{id}/complete [patch]
func (handler *Handler) CompleteRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteRental")
	defer scope.End()

	rental, err := handler.service.Complete(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete rental")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental completed successfully")

	response.WithJSON(w, http.StatusOK, rental)
}

// CancelRental
// @Summary Cancel a rental
// @Description Cancels a pending or active rental and releases the vehicle.
// @Tags Rental
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param id path string true "Rental ID"
// @Success 200 {object} response.Data[dto.RentalResponse] "Rental after the transition"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rentals/{id}/cancel [patch]
func (handler *Handler) CancelRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelRental")
	defer scope.End()

	rental, err := handler.service.Cancel(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel rental")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental cancelled successfully")

	response.WithJSON(w, http.StatusOK, rental)
}

// DeleteRental
// @Summary Delete a rental
// @Description Deleting an open rental releases its vehicle.
// @Tags Rental
// @Produce json
// @Param id path string true "Rental ID"
// @Success 200 {object} response.Message "Rental deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/rentals/{id} [delete]
func (handler *Handler) DeleteRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRental")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete rental")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental deleted successfully")

	response.WithMessage(w, http.StatusOK, "Rental deleted successfully")
}
