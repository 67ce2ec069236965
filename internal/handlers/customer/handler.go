package customer

import (
	"net/http"

	"vrent/infras/otel"
	"vrent/internal/domains/customer/model/dto"
	"vrent/internal/domains/customer/service"
	rentalService "vrent/internal/domains/rental/service"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/validator"
	"vrent/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Customer
	rentals rentalService.Rental
	otel    otel.Otel
}

func New(service service.Customer, rentals rentalService.Rental, otel otel.Otel) Handler {
	return Handler{
		service: service,
		rentals: rentals,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/customers", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCustomer)
		routerGroup.Get("/", handler.GetCustomers)
		routerGroup.Get("/tax-id/{taxID}", handler.GetCustomerByTaxID)
		routerGroup.Get("/email/{email}", handler.GetCustomerByEmail)
		routerGroup.Get("/{id}", handler.GetCustomerByID)
		routerGroup.Get("/{id}/rentals", handler.GetCustomerRentals)
		routerGroup.Patch("/{id}", handler.UpdateCustomer)
		routerGroup.Delete("/{id}", handler.DeleteCustomer)
	})
}

// CreateCustomer registers a new customer.
// @Summary Create a customer
// @Description Register a customer. Tax id and email must be unique.
// @Tags Customer
// @Accept json
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param request body dto.CreateCustomerRequest true "Create Customer Request"
// @Success 201 {object} response.Data[dto.CustomerResponse] "Customer created"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers [post]
func (handler *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCustomer")
	defer scope.End()

	req := dto.CreateCustomerRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	customer, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create customer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer created successfully")

	response.WithJSON(w, http.StatusCreated, customer)
}

// GetCustomers lists customers.
// @Summary Get all customers
// @Description Retrieve customers with optional search, state and city filters.
// @Tags Customer
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Matches name, tax id or email"
// @Param state query string false "Filter by state"
// @Param city query string false "Filter by city"
// @Success 200 {object} response.Data[dto.GetCustomersResponse] "List of customers"
// @Failure 500 {object} response.Error
// @Router /v1/customers [get]
func (handler *Handler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.CustomerFilter{}
	filter.FromRequest(r)

	customers, err := handler.service.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customers")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customers retrieved successfully")

	response.WithJSON(w, http.StatusOK, customers)
}

// GetCustomerByID
// @Summary Get a customer by ID
// @Tags Customer
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Data[dto.CustomerResponse] "Customer details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers/{id} [get]
func (handler *Handler) GetCustomerByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerByID")
	defer scope.End()

	customer, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customer by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer retrieved successfully")

	response.WithJSON(w, http.StatusOK, customer)
}

// GetCustomerByTaxID
// @Summary Get a customer by tax id
// @Description The tax id may be sent with or without punctuation.
// @Tags Customer
// @Produce json
// @Param taxID path string true "Tax ID"
// @Success 200 {object} response.Data[dto.CustomerResponse] "Customer details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/customers/tax-id/{taxID} [get]
func (handler *Handler) GetCustomerByTaxID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerByTaxID")
	defer scope.End()

	customer, err := handler.service.GetByTaxID(ctx, chi.URLParam(r, constant.RequestParamTaxID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customer by tax id")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer retrieved successfully")

	response.WithJSON(w, http.StatusOK, customer)
}

// GetCustomerByEmail
// @Summary Get a customer by email
// @Tags Customer
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} response.Data[dto.CustomerResponse] "Customer details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/customers/email/{email} [get]
func (handler *Handler) GetCustomerByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerByEmail")
	defer scope.End()

	customer, err := handler.service.GetByEmail(ctx, chi.URLParam(r, constant.RequestParamEmail))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customer by email")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer retrieved successfully")

	response.WithJSON(w, http.StatusOK, customer)
}

// GetCustomerRentals lists the rental history of one customer.
// @Summary Get rentals of a customer
// @Tags Customer
// @Produce json
// @Param id path string true "Customer ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[rentalDto.GetRentalsResponse] "Rentals of the customer"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers/{id}/rentals [get]
func (handler *Handler) GetCustomerRentals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerRentals")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rentals, err := handler.rentals.ByCustomer(ctx, chi.URLParam(r, constant.RequestParamID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customer rentals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer rentals retrieved successfully")

	response.WithJSON(w, http.StatusOK, rentals)
}

// UpdateCustomer
// @Summary Update a customer
// @Description Only the fields present in the body are changed.
// @Tags Customer
// @Accept json
// @Produce json
// @Param X-Actor header string false "Staff member performing the change"
// @Param id path string true "Customer ID"
// @Param request body dto.UpdateCustomerRequest true "Update Customer Request"
// @Success 200 {object} response.Data[dto.CustomerResponse] "Updated customer"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/customers/{id} [patch]
func (handler *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCustomer")
	defer scope.End()

	req := dto.UpdateCustomerRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	customer, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update customer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer updated successfully")

	response.WithJSON(w, http.StatusOK, customer)
}

// DeleteCustomer
// @Summary Delete a customer
// @Description Customers with rental history cannot be deleted.
// @Tags Customer
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Message "Customer deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/customers/{id} [delete]
func (handler *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCustomer")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete customer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer deleted successfully")

	response.WithMessage(w, http.StatusOK, "Customer deleted successfully")
}
