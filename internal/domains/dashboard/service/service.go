package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Dashboard=MockDashboardService

import (
	"context"
	"fmt"

	"vrent/config"
	"vrent/infras/otel"
	customerRepo "vrent/internal/domains/customer/repository"
	"vrent/internal/domains/dashboard/model/dto"
	rentalModel "vrent/internal/domains/rental/model"
	rentalDto "vrent/internal/domains/rental/model/dto"
	rentalRepo "vrent/internal/domains/rental/repository"
	vehicleModel "vrent/internal/domains/vehicle/model"
	vehicleRepo "vrent/internal/domains/vehicle/repository"
	"vrent/shared"
	"vrent/shared/cache"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"

	"github.com/rs/zerolog/log"
)

var cacheStats = shared.BuildCacheKey(constant.CachePrefixDashboard, "stats")

type Dashboard interface {
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	customers customerRepo.Customer
	vehicles  vehicleRepo.Vehicle
	rentals   rentalRepo.Rental
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	customers customerRepo.Customer,
	vehicles vehicleRepo.Vehicle,
	rentals rentalRepo.Rental,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Dashboard {
	return &serviceImpl{
		customers: customers,
		vehicles:  vehicles,
		rentals:   rentals,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Stats revenue counts completed rentals only.
func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.cache.Get(ctx, cacheStats, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheStats).Msg("cache hit for dashboard")

		return res, nil
	}

	all := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	if res.TotalCustomers, err = s.customers.Count(ctx, all); err != nil {
		return res, s.fail("count customers", err)
	}

	if res.TotalVehicles, err = s.vehicles.Count(ctx, all); err != nil {
		return res, s.fail("count vehicles", err)
	}

	available := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)
	available.Add(gDto.Eq(vehicleModel.TableName, vehicleModel.FieldIsAvailable, true))

	if res.AvailableVehicles, err = s.vehicles.Count(ctx, available); err != nil {
		return res, s.fail("count available vehicles", err)
	}

	if res.TotalRentals, err = s.rentals.Count(ctx, all); err != nil {
		return res, s.fail("count rentals", err)
	}

	if res.ActiveRentals, err = s.rentals.Count(ctx, byStatus(rentalModel.StatusActive)); err != nil {
		return res, s.fail("count active rentals", err)
	}

	if res.PendingRentals, err = s.rentals.Count(ctx, byStatus(rentalModel.StatusPending)); err != nil {
		return res, s.fail("count pending rentals", err)
	}

	revenue, err := s.rentals.Sum(ctx, rentalModel.FieldTotalAmount, byStatus(rentalModel.StatusCompleted))
	if err != nil {
		return res, s.fail("sum revenue", err)
	}

	res.Revenue = revenue.StringFixed(2)

	recent, err := s.rentals.GetAll(ctx, gDto.QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   dto.RecentRentalsLimit,
		SortBy:  constant.FieldCreatedAt,
		SortDir: constant.DefaultValueSortDir,
	}, all)
	if err != nil {
		return res, s.fail("get recent rentals", err)
	}

	res.RecentRentals = make([]rentalDto.RentalResponse, len(recent))
	for i, rental := range recent {
		res.RecentRentals[i].FromModel(rental)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheStats, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) fail(action string, err error) error {
	log.Error().Err(err).Msg("dashboard: failed to " + action)

	return fmt.Errorf("failed to %s: %w", action, err)
}

func byStatus(status rentalModel.Status) gDto.FilterGroup {
	filter := rentalDto.RentalFilter{Status: status}

	return filter.ToFilterGroup()
}
