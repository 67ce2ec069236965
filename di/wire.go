//go:build wireinject
// +build wireinject

package di

import (
	"vrent/config"
	"vrent/infras/jwt"
	"vrent/infras/kafka"
	"vrent/infras/otel"
	"vrent/infras/postgres"
	"vrent/infras/redis"
	"vrent/infras/s3"
	"vrent/internal/jobs"
	"vrent/shared/cache"
	"vrent/transport/http"
	"vrent/transport/http/middleware"
	"vrent/transport/http/router"

	customerRepository "vrent/internal/domains/customer/repository"
	customerService "vrent/internal/domains/customer/service"
	customerHandler "vrent/internal/handlers/customer"

	vehicleRepository "vrent/internal/domains/vehicle/repository"
	vehicleService "vrent/internal/domains/vehicle/service"
	vehicleHandler "vrent/internal/handlers/vehicle"

	rentalRepository "vrent/internal/domains/rental/repository"
	rentalService "vrent/internal/domains/rental/service"
	rentalHandler "vrent/internal/handlers/rental"

	portalService "vrent/internal/domains/portal/service"
	portalHandler "vrent/internal/handlers/portal"

	dashboardService "vrent/internal/domains/dashboard/service"
	dashboardHandler "vrent/internal/handlers/dashboard"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewPortalSessionMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var customerDomain = wire.NewSet(
	customerRepository.New,
	customerService.New,
)

var vehicleDomain = wire.NewSet(
	vehicleRepository.New,
	vehicleService.New,
)

var rentalDomain = wire.NewSet(
	rentalRepository.New,
	rentalService.New,
)

var domains = wire.NewSet(
	customerDomain,
	vehicleDomain,
	rentalDomain,
	portalService.New,
	dashboardService.New,
)

var backgroundJobs = wire.NewSet(
	jobs.NewReconciler,
	jobs.NewScheduler,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	customerHandler.New,
	vehicleHandler.New,
	rentalHandler.New,
	portalHandler.New,
	dashboardHandler.New,
	router.New,
)

func InitializeService() (*App, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		backgroundJobs,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}, nil
}
