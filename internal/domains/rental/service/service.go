// Package service drives the rental lifecycle.
//
// A rental starts pending and ends completed or cancelled. While it is open
// (pending or active) it holds its vehicle: the vehicle is flagged unavailable
// in the same transaction that opens the rental and released in the one that
// closes or deletes it.
package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Rental=MockRentalService

import (
	"context"
	"errors"
	"fmt"

	"vrent/config"
	"vrent/infras/kafka"
	"vrent/infras/otel"
	"vrent/infras/postgres"
	customerModel "vrent/internal/domains/customer/model"
	customerRepo "vrent/internal/domains/customer/repository"
	"vrent/internal/domains/rental/model"
	"vrent/internal/domains/rental/model/dto"
	"vrent/internal/domains/rental/pricing"
	"vrent/internal/domains/rental/repository"
	vehicleModel "vrent/internal/domains/vehicle/model"
	vehicleRepo "vrent/internal/domains/vehicle/repository"
	"vrent/shared"
	"vrent/shared/cache"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	gRepo "vrent/shared/repository"
	"vrent/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRental    = "rental:get"
	cacheGetAllRental = "rental:gets"
	cacheCountRental  = "rental:count"

	errRentalNotFound     = "rental not found"
	errCustomerNotFound   = "customer not found"
	errVehicleNotFound    = "vehicle not found"
	errVehicleUnavailable = "vehicle is not available"
	errEmptyPeriod        = "rental period must cover at least one day"
)

const (
	EventCreated   = "rental.created"
	EventActivated = "rental.activated"
	EventCompleted = "rental.completed"
	EventCancelled = "rental.cancelled"
	EventDeleted   = "rental.deleted"
)

var actionEvents = map[model.Action]string{
	model.ActionActivate: EventActivated,
	model.ActionComplete: EventCompleted,
	model.ActionCancel:   EventCancelled,
}

type Rental interface {
	Create(ctx context.Context, req dto.CreateRentalRequest) (dto.RentalResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRentalsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Active(ctx context.Context, req gDto.QueryParams) (dto.GetRentalsResponse, error)
	Pending(ctx context.Context, req gDto.QueryParams) (dto.GetRentalsResponse, error)
	ByCustomer(ctx context.Context, customerID string, req gDto.QueryParams) (dto.GetRentalsResponse, error)
	ByVehicle(ctx context.Context, vehicleID string, req gDto.QueryParams) (dto.GetRentalsResponse, error)
	Get(ctx context.Context, id string) (dto.RentalResponse, error)
	Update(ctx context.Context, req dto.UpdateRentalRequest, id string) (dto.RentalResponse, error)
	Activate(ctx context.Context, id string) (dto.RentalResponse, error)
	Complete(ctx context.Context, id string) (dto.RentalResponse, error)
	Cancel(ctx context.Context, id string) (dto.RentalResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Rental
	customers customerRepo.Customer
	vehicles  vehicleRepo.Vehicle
	tx        postgres.Transactor
	producer  kafka.Client
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Rental,
	customers customerRepo.Customer,
	vehicles vehicleRepo.Vehicle,
	tx postgres.Transactor,
	producer kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Rental {
	return &serviceImpl{
		repo:      repo,
		customers: customers,
		vehicles:  vehicles,
		tx:        tx,
		producer:  producer,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Create validates the request before touching any repository.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRentalRequest) (res dto.RentalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	start, end, err := req.Period()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	customer, err := s.customers.Get(ctx, shared.FilterByID(req.CustomerID, customerModel.FieldID, customerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rental customer")

		return res, fmt.Errorf("failed to get rental customer: %w", err)
	}

	if customer.ID == constant.Empty {
		return res, failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	vehicleFilter := shared.FilterByID(req.VehicleID, vehicleModel.FieldID, vehicleModel.TableName)

	vehicle, err := s.vehicles.Get(ctx, vehicleFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rental vehicle")

		return res, fmt.Errorf("failed to get rental vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return res, failure.NotFound(errVehicleNotFound) // nolint:wrapcheck
	}

	if !vehicle.IsAvailable {
		return res, failure.Conflict(errVehicleUnavailable) // nolint:wrapcheck
	}

	quote := pricing.Calculate(start, end, vehicle.DailyRate)
	if !quote.Valid() {
		return res, failure.BadRequestFromString(errEmptyPeriod) // nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	rental := req.ToModel(quote, start, end, actor)

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, rental); err != nil {
			return err //nolint:wrapcheck
		}

		return s.vehicles.UpdateTx(ctx, tx, availability(false, actor), vehicleFilter) //nolint:wrapcheck
	})
	if err != nil {
		if constraint, ok := gRepo.UniqueViolation(err); ok && constraint == model.ConstraintOpenVehicle {
			return res, failure.Conflict(errVehicleUnavailable) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create rental")

		return res, fmt.Errorf("failed to create rental: %w", err)
	}

	rental.CustomerName = customer.Name
	rental.VehicleBrand = vehicle.Brand
	rental.VehicleModel = vehicle.Model
	rental.VehiclePlate = vehicle.Plate

	res.FromModel(rental)

	log.Info().Str("rentalID", rental.ID).Str("vehicleID", rental.VehicleID).
		Str("total", res.TotalAmount).Msg("rental created")

	go s.afterWrite(context.WithoutCancel(ctx), EventCreated, rental, actor)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRentalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(dto.SortableFields...)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRental, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rentals")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rentals")

		return res, fmt.Errorf("failed to count rentals: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rentals")

		return res, fmt.Errorf("failed to get rentals: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rentals to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRental, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rentals")

		return res, fmt.Errorf("failed to count rentals: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rental count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Active(ctx context.Context, req gDto.QueryParams) (dto.GetRentalsResponse, error) {
	filter := dto.RentalFilter{Status: model.StatusActive}

	return s.GetAll(ctx, req, filter.ToFilterGroup())
}

func (s *serviceImpl) Pending(ctx context.Context, req gDto.QueryParams) (dto.GetRentalsResponse, error) {
	filter := dto.RentalFilter{Status: model.StatusPending}

	return s.GetAll(ctx, req, filter.ToFilterGroup())
}

// ByCustomer is the rental history of one customer.
func (s *serviceImpl) ByCustomer(ctx context.Context, customerID string, req gDto.QueryParams) (res dto.GetRentalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ByCustomer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsUUID(customerID) {
		return res, failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	exist, err := s.customers.Exist(ctx, shared.FilterByID(customerID, customerModel.FieldID, customerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check customer existence")

		return res, fmt.Errorf("failed to check customer existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	filter := dto.RentalFilter{CustomerID: customerID}

	return s.GetAll(ctx, req, filter.ToFilterGroup())
}

func (s *serviceImpl) ByVehicle(ctx context.Context, vehicleID string, req gDto.QueryParams) (res dto.GetRentalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ByVehicle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsUUID(vehicleID) {
		return res, failure.NotFound(errVehicleNotFound) // nolint:wrapcheck
	}

	exist, err := s.vehicles.Exist(ctx, shared.FilterByID(vehicleID, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check vehicle existence")

		return res, fmt.Errorf("failed to check vehicle existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound(errVehicleNotFound) // nolint:wrapcheck
	}

	filter := dto.RentalFilter{VehicleID: vehicleID}

	return s.GetAll(ctx, req, filter.ToFilterGroup())
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RentalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRental, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rental")

		return res, nil
	}

	rental, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(rental)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rental to cache")
		}
	}()

	return res, nil
}

// Update edits dates and notes of an open rental. New dates are priced with
// the rate frozen at creation, never the vehicle's current rate.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRentalRequest, id string) (res dto.RentalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	rental, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !rental.Status.Editable() {
		return res, model.ErrRentalNotEditable
	}

	fields := shared.AuditFields(shared.ActorFromContext(ctx))

	if req.ChangesPeriod() {
		start, end, periodErr := req.Period(rental)
		if periodErr != nil {
			return res, failure.BadRequest(periodErr) // nolint:wrapcheck
		}

		quote := pricing.Calculate(start, end, rental.DailyRate)
		if !quote.Valid() {
			return res, failure.BadRequestFromString(errEmptyPeriod) // nolint:wrapcheck
		}

		fields[model.FieldStartDate] = start
		fields[model.FieldEndDate] = end
		fields[model.FieldDaysRented] = quote.DaysRented
		fields[model.FieldTotalAmount] = quote.TotalAmount
	}

	if req.Notes != nil {
		fields[model.FieldNotes] = *req.Notes
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update rental")

		return res, fmt.Errorf("failed to update rental: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return s.reload(ctx, id)
}

func (s *serviceImpl) Activate(ctx context.Context, id string) (res dto.RentalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Activate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.ActionActivate)
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (res dto.RentalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.ActionComplete)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.RentalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.ActionCancel)
}

// transition applies action and, when it closes the rental, releases the vehicle
// in the same transaction. A rejected transition writes nothing.
func (s *serviceImpl) transition(ctx context.Context, id string, action model.Action) (res dto.RentalResponse, err error) {
	rental, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	next, err := rental.Status.Next(action)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	fields := shared.AuditFields(actor)
	fields[model.FieldStatus] = next

	// a concurrent transition that moved the row first leaves nothing to update
	filter := model.InStatus(id, rental.Status)

	if next.Open() {
		err = s.repo.Update(ctx, fields, filter)
	} else {
		err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
			if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
				return err //nolint:wrapcheck
			}

			return s.releaseVehicle(ctx, tx, rental.VehicleID, actor)
		})
	}

	if errors.Is(err, gRepo.ErrNoRowsAffected) {
		return res, fmt.Errorf("%w: rental left %s before it could %s", model.ErrInvalidTransition, rental.Status, action)
	}

	if err != nil {
		log.Error().Err(err).Str("action", string(action)).Msg("failed to change rental status")

		return res, fmt.Errorf("failed to %s rental: %w", action, err)
	}

	log.Info().Str("rentalID", id).Str("from", string(rental.Status)).Str("to", string(next)).Msg("rental status changed")

	rental.Status = next
	go s.afterWrite(context.WithoutCancel(ctx), actionEvents[action], rental, actor)

	return s.reload(ctx, id)
}

// Delete removes a rental in any status. Deleting an open rental releases its vehicle.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rental, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if rental.Status.Terminal() {
		log.Warn().Str("rentalID", id).Str("status", string(rental.Status)).Msg("deleting a closed rental removes its historical record")
	}

	actor := shared.ActorFromContext(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if rental.Status.Open() {
		err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
			if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
				return err //nolint:wrapcheck
			}

			return s.releaseVehicle(ctx, tx, rental.VehicleID, actor)
		})
	} else {
		err = s.repo.Delete(ctx, filter)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to delete rental")

		return fmt.Errorf("failed to delete rental: %w", err)
	}

	go s.afterWrite(context.WithoutCancel(ctx), EventDeleted, rental, actor)

	return nil
}

func (s *serviceImpl) releaseVehicle(ctx context.Context, tx *sqlx.Tx, vehicleID, actor string) error {
	return s.vehicles.UpdateTx(ctx, tx, availability(true, actor), //nolint:wrapcheck
		shared.FilterByID(vehicleID, vehicleModel.FieldID, vehicleModel.TableName))
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Rental, error) {
	if !shared.IsUUID(id) {
		return model.Rental{}, failure.NotFound(errRentalNotFound) // nolint:wrapcheck
	}

	rental, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rental")

		return rental, fmt.Errorf("failed to get rental: %w", err)
	}

	if rental.ID == constant.Empty {
		return rental, failure.NotFound(errRentalNotFound) // nolint:wrapcheck
	}

	return rental, nil
}

func (s *serviceImpl) reload(ctx context.Context, id string) (res dto.RentalResponse, err error) {
	rental, err := s.find(ctx, id)
	if err != nil {
		return res, fmt.Errorf("failed to reload rental: %w", err)
	}

	res.FromModel(rental)

	return res, nil
}

func (s *serviceImpl) afterWrite(ctx context.Context, eventType string, rental model.Rental, actor string) {
	s.invalidate(ctx, rental.ID)

	event := dto.NewRentalEvent(eventType, rental, actor)

	if err := s.producer.SendMessages(ctx, s.cfg.Kafka.Topics.Rental, kafka.Message{Key: rental.ID, Value: event}); err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("failed to publish rental event")
	}
}

// invalidate also clears vehicle and dashboard entries since rental writes move
// vehicle availability and the counters.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRental, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete rental cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllRental)
	shared.InvalidateCaches(ctx, s.cache, cacheCountRental)
	shared.InvalidateCaches(ctx, s.cache, vehicleModel.CachePrefix)
	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixDashboard)
}

func availability(available bool, actor string) map[string]any {
	fields := shared.AuditFields(actor)
	fields[vehicleModel.FieldIsAvailable] = available

	return fields
}
