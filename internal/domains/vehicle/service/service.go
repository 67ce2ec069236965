package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Vehicle=MockVehicleService

import (
	"context"
	"fmt"
	"io"

	"vrent/config"
	"vrent/infras/otel"
	"vrent/infras/s3"
	rentalModel "vrent/internal/domains/rental/model"
	rentalRepo "vrent/internal/domains/rental/repository"
	"vrent/internal/domains/vehicle/model"
	"vrent/internal/domains/vehicle/model/dto"
	"vrent/internal/domains/vehicle/repository"
	"vrent/shared"
	"vrent/shared/base64"
	"vrent/shared/cache"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	gRepo "vrent/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetVehicle    = model.CachePrefix + ":get"
	cacheGetAllVehicle = model.CachePrefix + ":gets"
	cacheCountVehicle  = model.CachePrefix + ":count"

	errVehicleNotFound = "vehicle not found"
	errVehicleHeld     = "vehicle has an open rental"
)

var photoExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

type Vehicle interface {
	Create(ctx context.Context, req dto.CreateVehicleRequest) (dto.VehicleResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVehiclesResponse, error)
	Available(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVehiclesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.VehicleResponse, error)
	Update(ctx context.Context, req dto.UpdateVehicleRequest, id string) (dto.VehicleResponse, error)
	UpdateAvailability(ctx context.Context, id string, available bool) (dto.VehicleResponse, error)
	UploadPhoto(ctx context.Context, id, contentType string, file io.Reader) (dto.VehicleResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Vehicle
	rentals rentalRepo.Rental
	storage s3.S3
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(
	repo repository.Vehicle,
	rentals rentalRepo.Rental,
	storage s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Vehicle {
	return &serviceImpl{
		repo:    repo,
		rentals: rentals,
		storage: storage,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateVehicleRequest) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Validate(); err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	vehicle := req.ToModel(shared.ActorFromContext(ctx), constant.Empty)

	if req.Photo != constant.Empty {
		data, contentType, decodeErr := base64.Decode(req.Photo)
		if decodeErr != nil {
			return res, failure.BadRequest(decodeErr) // nolint:wrapcheck
		}

		vehicle.PhotoURL, err = s.storage.UploadFileBytes(ctx, model.PhotoDirectory, photoName(vehicle.ID, contentType), contentType, data)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload vehicle photo")

			return res, fmt.Errorf("failed to upload vehicle photo: %w", err)
		}
	}

	if err = s.repo.Insert(ctx, vehicle); err != nil {
		if vehicle.PhotoURL != constant.Empty {
			go s.removePhoto(context.WithoutCancel(ctx), vehicle.PhotoURL)
		}

		if _, ok := gRepo.UniqueViolation(err); ok {
			return res, failure.Conflict("plate already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create vehicle")

		return res, fmt.Errorf("failed to create vehicle: %w", err)
	}

	res.FromModel(vehicle)

	go s.invalidate(context.WithoutCancel(ctx), constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVehiclesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(dto.SortableFields...)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllVehicle, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicles")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vehicles")

		return res, fmt.Errorf("failed to count vehicles: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicles")

		return res, fmt.Errorf("failed to get vehicles: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicles to cache")
		}
	}()

	return res, nil
}

// Available lists vehicles flagged available, on top of any caller filter.
func (s *serviceImpl) Available(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVehiclesResponse, error) {
	available := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)
	available.Add(gDto.Eq(model.TableName, model.FieldIsAvailable, true))

	if !filter.Empty() {
		available.Add(filter)
	}

	return s.GetAll(ctx, req, available)
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountVehicle, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vehicles")

		return res, fmt.Errorf("failed to count vehicles: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetVehicle, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicle")

		return res, nil
	}

	vehicle, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(vehicle)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateVehicleRequest, id string) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Validate(); err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, req.Fields(shared.ActorFromContext(ctx)), filter); err != nil {
		if _, ok := gRepo.UniqueViolation(err); ok {
			return res, failure.Conflict("plate already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update vehicle")

		return res, fmt.Errorf("failed to update vehicle: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return s.reload(ctx, id)
}

// UpdateAvailability refuses to release a vehicle that an open rental still holds.
func (s *serviceImpl) UpdateAvailability(ctx context.Context, id string, available bool) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	if available {
		var held bool

		held, err = s.rentals.Exist(ctx, rentalModel.OpenFor(rentalModel.FieldVehicleID, id))
		if err != nil {
			log.Error().Err(err).Msg("failed to check open rentals for vehicle")

			return res, fmt.Errorf("failed to check open rentals for vehicle: %w", err)
		}

		if held {
			return res, failure.Conflict(errVehicleHeld) // nolint:wrapcheck
		}
	}

	fields := shared.AuditFields(shared.ActorFromContext(ctx))
	fields[model.FieldIsAvailable] = available

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update vehicle availability")

		return res, fmt.Errorf("failed to update vehicle availability: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return s.reload(ctx, id)
}

// UploadPhoto stores the image and replaces any previous photo.
func (s *serviceImpl) UploadPhoto(ctx context.Context, id, contentType string, file io.Reader) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadPhoto")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, ok := photoExtensions[contentType]; !ok {
		return res, failure.BadRequestFromString("photo must be a png or jpeg image") // nolint:wrapcheck
	}

	vehicle, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	url, err := s.storage.Upload(ctx, model.PhotoDirectory, photoName(id, contentType), contentType, file)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload vehicle photo")

		return res, fmt.Errorf("failed to upload vehicle photo: %w", err)
	}

	fields := shared.AuditFields(shared.ActorFromContext(ctx))
	fields[model.FieldPhotoURL] = url

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to save vehicle photo")

		return res, fmt.Errorf("failed to save vehicle photo: %w", err)
	}

	if vehicle.PhotoURL != constant.Empty && vehicle.PhotoURL != url {
		go s.removePhoto(context.WithoutCancel(ctx), vehicle.PhotoURL)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return s.reload(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	vehicle, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	held, err := s.rentals.Exist(ctx, rentalModel.OpenFor(rentalModel.FieldVehicleID, id))
	if err != nil {
		log.Error().Err(err).Msg("failed to check open rentals for vehicle")

		return fmt.Errorf("failed to check open rentals for vehicle: %w", err)
	}

	if held {
		return failure.Conflict(errVehicleHeld + " and cannot be deleted") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if gRepo.ForeignKeyViolation(err) {
			return failure.Conflict("vehicle has rental history and cannot be deleted") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete vehicle")

		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	if vehicle.PhotoURL != constant.Empty {
		go s.removePhoto(context.WithoutCancel(ctx), vehicle.PhotoURL)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Vehicle, error) {
	if !shared.IsUUID(id) {
		return model.Vehicle{}, failure.NotFound(errVehicleNotFound) // nolint:wrapcheck
	}

	vehicle, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return vehicle, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return vehicle, failure.NotFound(errVehicleNotFound) // nolint:wrapcheck
	}

	return vehicle, nil
}

func (s *serviceImpl) reload(ctx context.Context, id string) (res dto.VehicleResponse, err error) {
	vehicle, err := s.find(ctx, id)
	if err != nil {
		return res, fmt.Errorf("failed to reload vehicle: %w", err)
	}

	res.FromModel(vehicle)

	return res, nil
}

func (s *serviceImpl) removePhoto(ctx context.Context, url string) {
	if err := s.storage.DeleteFile(ctx, model.PhotoDirectory, s.storage.GetObjectNameFromURL(url)); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to delete vehicle photo")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if id != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetVehicle, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllVehicle)
	shared.InvalidateCaches(ctx, s.cache, cacheCountVehicle)
	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixDashboard)
}

func photoName(id, contentType string) string {
	return id + photoExtensions[contentType]
}
