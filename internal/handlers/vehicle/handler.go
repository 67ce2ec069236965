package vehicle

import (
	"errors"
	"net/http"

	"vrent/infras/otel"
	rentalService "vrent/internal/domains/rental/service"
	"vrent/internal/domains/vehicle/model"
	"vrent/internal/domains/vehicle/model/dto"
	"vrent/internal/domains/vehicle/service"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	"vrent/shared/validator"
	"vrent/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// multipart framing around the photo part
const photoFormOverhead = 64 << 10

var errPhotoTooLarge = failure.BadRequestFromString("photo must not exceed 1 MB")

type Handler struct {
	service service.Vehicle
	rentals rentalService.Rental
	otel    otel.Otel
}

func New(service service.Vehicle, rentals rentalService.Rental, otel otel.Otel) Handler {
	return Handler{
		service: service,
		rentals: rentals,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/vehicles", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateVehicle)
		routerGroup.Get("/", handler.GetVehicles)
		routerGroup.Get("/available", handler.GetAvailableVehicles)
		routerGroup.Get("/{id}", handler.GetVehicleByID)
		routerGroup.Get("/{id}/rentals", handler.GetVehicleRentals)
		routerGroup.Patch("/{id}", handler.UpdateVehicle)
		routerGroup.Patch("/{id}/availability", handler.UpdateAvailability)
		routerGroup.Put("/{id}/photo", handler.UploadPhoto)
		routerGroup.Delete("/{id}", handler.DeleteVehicle)
	})
}

// CreateVehicle adds a vehicle to the fleet.
// @Summary Create a vehicle
// @Description Create a vehicle. The optional photo is a base64 data URL of a png or jpeg image up to 1 MB.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param request body dto.CreateVehicleRequest true "Create Vehicle Request"
// @Success 201 {object} response.Data[dto.VehicleResponse] "Vehicle created"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles [post]
func (handler *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateVehicle")
	defer scope.End()

	req := dto.CreateVehicleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	vehicle, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create vehicle")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle created successfully")

	response.WithJSON(w, http.StatusCreated, vehicle)
}

// GetVehicles lists the fleet.
// @Summary Get all vehicles
// @Tags Vehicle
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Matches brand, model or plate"
// @Param min_price query number false "Minimum daily rate"
// @Param max_price query number false "Maximum daily rate"
// @Param is_available query boolean false "Filter by availability"
// @Param year query integer false "Filter by year"
// @Param fuel_type query string false "Filter by fuel type"
// @Param transmission query string false "Filter by transmission"
// @Param color query string false "Filter by color"
// @Param min_mileage query integer false "Minimum mileage"
// @Param max_mileage query integer false "Maximum mileage"
// @Success 200 {object} response.Data[dto.GetVehiclesResponse] "List of vehicles"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles [get]
func (handler *Handler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicles")
	defer scope.End()

	queryParams, filter, err := listing(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	vehicles, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicles")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicles retrieved successfully")

	response.WithJSON(w, http.StatusOK, vehicles)
}

// GetAvailableVehicles
// @Summary Get rentable vehicles
// @Description Same filters as the fleet listing, restricted to available vehicles.
// @Tags Vehicle
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetVehiclesResponse] "List of available vehicles"
// @Failure 400 {object} response.Error
// @Router /v1/vehicles/available [get]
func (handler *Handler) GetAvailableVehicles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableVehicles")
	defer scope.End()

	queryParams, filter, err := listing(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	vehicles, err := handler.service.Available(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available vehicles")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Available vehicles retrieved successfully")

	response.WithJSON(w, http.StatusOK, vehicles)
}

// GetVehicleByID
// @Summary Get a vehicle by ID
// @Tags Vehicle
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Data[dto.VehicleResponse] "Vehicle details"
// @Failure 404 {object} response.Error
// @Router /v1/vehicles/{id} [get]
func (handler *Handler) GetVehicleByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicleByID")
	defer scope.End()

	vehicle, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle retrieved successfully")

	response.WithJSON(w, http.StatusOK, vehicle)
}

// GetVehicleRentals
// @Summary Get rentals of a vehicle
// @Tags Vehicle
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Failure 404 {object} response.Error
// @Router /v1/vehicles/{id}/rentals [get]
func (handler *Handler) GetVehicleRentals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicleRentals")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rentals, err := handler.rentals.ByVehicle(ctx, chi.URLParam(r, constant.RequestParamID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle rentals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle rentals retrieved successfully")

	response.WithJSON(w, http.StatusOK, rentals)
}

// UpdateVehicle
// @Summary Update a vehicle
// @Description Only the fields present in the body are changed.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param id path string true "Vehicle ID"
// @Param request body dto.UpdateVehicleRequest true "Update Vehicle Request"
// @Success 200 {object} response.Data[dto.VehicleResponse] "Updated vehicle"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/vehicles/{id} [patch]
func (handler *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVehicle")
	defer scope.End()

	req := dto.UpdateVehicleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	vehicle, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vehicle")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle updated successfully")

	response.WithJSON(w, http.StatusOK, vehicle)
}

// UpdateAvailability
// @Summary Toggle vehicle availability
// @Description A vehicle held by a pending or active rental cannot be made available.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body dto.UpdateAvailabilityRequest true "Availability"
// @Success 200 {object} response.Data[dto.VehicleResponse] "Updated vehicle"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/vehicles/{id}/availability [patch]
func (handler *Handler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAvailability")
	defer scope.End()

	req := dto.UpdateAvailabilityRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	vehicle, err := handler.service.UpdateAvailability(ctx, chi.URLParam(r, constant.RequestParamID), *req.IsAvailable)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vehicle availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle availability updated successfully")

	response.WithJSON(w, http.StatusOK, vehicle)
}

// UploadPhoto replaces the vehicle photo.
// @Summary Upload a vehicle photo
// @Tags Vehicle
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param photo formData file true "png or jpeg image up to 1 MB"
// @Success 200 {object} response.Data[dto.VehicleResponse] "Updated vehicle"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/vehicles/{id}/photo [put]
func (handler *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadPhoto")
	defer scope.End()

	r.Body = http.MaxBytesReader(w, r.Body, model.PhotoMaxBytes+photoFormOverhead)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = errPhotoTooLarge
		} else {
			err = failure.BadRequest(err)
		}

		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	file, header, err := r.FormFile(constant.FormFilePhoto)
	if err != nil {
		err = failure.BadRequestFromString("photo is required")

		scope.TraceError(err)
		response.WithError(w, err)

		return
	}
	defer file.Close()

	if header.Size > model.PhotoMaxBytes {
		scope.TraceError(errPhotoTooLarge)
		response.WithError(w, errPhotoTooLarge)

		return
	}

	vehicle, err := handler.service.UploadPhoto(ctx, chi.URLParam(r, constant.RequestParamID), header.Header.Get(constant.RequestHeaderContentType), file)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload vehicle photo")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle photo uploaded successfully")

	response.WithJSON(w, http.StatusOK, vehicle)
}

// DeleteVehicle
// @Summary Delete a vehicle
// @Description Vehicles with open rentals or rental history cannot be deleted.
// @Tags Vehicle
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Message "Vehicle deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/vehicles/{id} [delete]
func (handler *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteVehicle")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete vehicle")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle deleted successfully")

	response.WithMessage(w, http.StatusOK, "Vehicle deleted successfully")
}

func listing(r *http.Request) (gDto.QueryParams, gDto.FilterGroup, error) {
	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.VehicleFilter{}
	if err := filter.FromRequest(r); err != nil {
		return queryParams, gDto.FilterGroup{}, failure.BadRequest(err) // nolint:wrapcheck
	}

	return queryParams, filter.ToFilterGroup(), nil
}
