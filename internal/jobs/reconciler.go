package jobs

import (
	"context"
	"fmt"

	"vrent/infras/otel"
	vehicleModel "vrent/internal/domains/vehicle/model"
	vehicleRepo "vrent/internal/domains/vehicle/repository"
	"vrent/shared"
	"vrent/shared/cache"
	"vrent/shared/constant"

	"github.com/rs/zerolog/log"
)

const reconcilerActor = "availability-reconciler"

// Reconciler repairs vehicles left flagged available while an open rental
// holds them. It never flips a vehicle back to available, so manual
// maintenance toggles survive.
type Reconciler struct {
	vehicles vehicleRepo.Vehicle
	cache    cache.RedisCache
	otel     otel.Otel
}

func NewReconciler(vehicles vehicleRepo.Vehicle, cache cache.RedisCache, otel otel.Otel) *Reconciler {
	return &Reconciler{
		vehicles: vehicles,
		cache:    cache,
		otel:     otel,
	}
}

func (r *Reconciler) Run(ctx context.Context) (fixed int64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".ReconcileAvailability")
	defer scope.End()

	fixed, err = r.vehicles.ReleaseHeld(ctx, reconcilerActor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("availability reconciliation failed")

		return 0, fmt.Errorf("failed to reconcile availability: %w", err)
	}

	if fixed == 0 {
		log.Debug().Msg("vehicle availability consistent")

		return 0, nil
	}

	log.Warn().Int64("vehicles", fixed).Msg("marked held vehicles unavailable")

	shared.InvalidateCaches(ctx, r.cache, vehicleModel.CachePrefix)
	shared.InvalidateCaches(ctx, r.cache, constant.CachePrefixDashboard)

	return fixed, nil
}
