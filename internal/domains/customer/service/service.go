package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Customer=MockCustomerService

import (
	"context"
	"fmt"
	"strings"

	"vrent/config"
	"vrent/infras/otel"
	"vrent/internal/domains/customer/model"
	"vrent/internal/domains/customer/model/dto"
	"vrent/internal/domains/customer/repository"
	"vrent/shared"
	"vrent/shared/cache"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	gRepo "vrent/shared/repository"
	"vrent/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCustomer    = "customer:get"
	cacheGetAllCustomer = "customer:gets"
	cacheCountCustomer  = "customer:count"
	cacheLookupCustomer = "customer:lookup"

	errCustomerNotFound = "customer not found"
)

type Customer interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (dto.CustomerResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCustomersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.CustomerResponse, error)
	GetByTaxID(ctx context.Context, taxID string) (dto.CustomerResponse, error)
	GetByEmail(ctx context.Context, email string) (dto.CustomerResponse, error)
	Update(ctx context.Context, req dto.UpdateCustomerRequest, id string) (dto.CustomerResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Customer
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Customer, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Customer {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCustomerRequest) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	customer, err := req.ToModel(shared.ActorFromContext(ctx))
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, customer); err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return res, conflict
		}

		log.Error().Err(err).Msg("failed to create customer")

		return res, fmt.Errorf("failed to create customer: %w", err)
	}

	res.FromModel(customer)

	go s.invalidate(context.WithoutCancel(ctx), constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCustomersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(dto.SortableFields...)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCustomer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for customers")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count customers")

		return res, fmt.Errorf("failed to count customers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get customers")

		return res, fmt.Errorf("failed to get customers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save customers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCustomer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count customers")

		return res, fmt.Errorf("failed to count customers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save customer count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.getBy(ctx, shared.BuildCacheKey(cacheGetCustomer, id), model.FieldID, id)
}

// GetByTaxID accepts the tax id with or without punctuation.
func (s *serviceImpl) GetByTaxID(ctx context.Context, taxID string) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByTaxID")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateVar(taxID, "required,taxid"); err != nil {
		return res, err //nolint:wrapcheck
	}

	taxID = validator.NormalizeTaxID(taxID)

	return s.getBy(ctx, shared.BuildCacheKey(cacheLookupCustomer, model.FieldTaxID, taxID), model.FieldTaxID, taxID)
}

func (s *serviceImpl) GetByEmail(ctx context.Context, email string) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByEmail")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateVar(strings.TrimSpace(email), "required,email"); err != nil {
		return res, err //nolint:wrapcheck
	}

	email = strings.ToLower(strings.TrimSpace(email))

	return s.getBy(ctx, shared.BuildCacheKey(cacheLookupCustomer, model.FieldEmail, email), model.FieldEmail, email)
}

func (s *serviceImpl) getBy(ctx context.Context, cacheKey, field, value string) (res dto.CustomerResponse, err error) {
	if field == model.FieldID && !shared.IsUUID(value) {
		return res, failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for customer")

		return res, nil
	}

	customer, err := s.repo.Get(ctx, shared.FilterByID(value, field, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("field", field).Msg("failed to get customer")

		return res, fmt.Errorf("failed to get customer: %w", err)
	}

	if customer.ID == constant.Empty {
		return res, failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	res.FromModel(customer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save customer to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCustomerRequest, id string) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsUUID(id) {
		return res, failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check customer existence")

		return res, fmt.Errorf("failed to check customer existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	fields, err := req.Fields(shared.ActorFromContext(ctx))
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return res, conflict
		}

		log.Error().Err(err).Msg("failed to update customer")

		return res, fmt.Errorf("failed to update customer: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to reload customer: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsUUID(id) {
		return failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if customer exists")

		return fmt.Errorf("failed to check if customer exists: %w", err)
	}

	if !exist {
		return failure.NotFound(errCustomerNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if gRepo.ForeignKeyViolation(err) {
			return failure.Conflict("customer has rentals and cannot be deleted") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete customer")

		return fmt.Errorf("failed to delete customer: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if id != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetCustomer, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete customer cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllCustomer)
	shared.InvalidateCaches(ctx, s.cache, cacheCountCustomer)
	shared.InvalidateCaches(ctx, s.cache, cacheLookupCustomer)
	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixDashboard)
}

func uniqueConflict(err error) error {
	constraint, ok := gRepo.UniqueViolation(err)
	if !ok {
		return nil
	}

	switch constraint {
	case model.ConstraintTaxID:
		return failure.Conflict("tax id already registered") // nolint:wrapcheck
	case model.ConstraintEmail:
		return failure.Conflict("email already registered") // nolint:wrapcheck
	default:
		return failure.Conflict("customer already exists") // nolint:wrapcheck
	}
}
