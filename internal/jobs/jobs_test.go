package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vrent/config"
	otelMocks "vrent/infras/otel/mocks"
	"vrent/internal/domains/vehicle/mocks"
	"vrent/internal/jobs"
	cacheMocks "vrent/shared/cache/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReconciler_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	vehicles := mocks.NewMockVehicle(ctrl)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	vehicles.EXPECT().ReleaseHeld(gomock.Any(), "availability-reconciler").Return(int64(2), nil)
	redisCache.EXPECT().Clear(gomock.Any(), "vehicle*").Return(nil)
	redisCache.EXPECT().Clear(gomock.Any(), "dashboard*").Return(nil)

	fixed, err := jobs.NewReconciler(vehicles, redisCache, otelMocks.NewOtel()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), fixed)
}

func TestReconciler_NothingToFix(t *testing.T) {
	ctrl := gomock.NewController(t)
	vehicles := mocks.NewMockVehicle(ctrl)

	vehicles.EXPECT().ReleaseHeld(gomock.Any(), gomock.Any()).Return(int64(0), nil)

	fixed, err := jobs.NewReconciler(vehicles, cacheMocks.NewMockRedisCache(ctrl), otelMocks.NewOtel()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, fixed)
}

func TestReconciler_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	vehicles := mocks.NewMockVehicle(ctrl)

	vehicles.EXPECT().ReleaseHeld(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection reset"))

	_, err := jobs.NewReconciler(vehicles, cacheMocks.NewMockRedisCache(ctrl), otelMocks.NewOtel()).Run(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{}
	cfg.Jobs.ReconcileAvailability.Schedule = "0 */15 * * * *"

	disabled, err := jobs.NewScheduler(cfg, nil)
	require.NoError(t, err)
	assert.Zero(t, disabled.Jobs())

	cfg.Jobs.ReconcileAvailability.Enable = true

	enabled, err := jobs.NewScheduler(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, enabled.Jobs())

	enabled.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	enabled.Stop(ctx)

	cfg.Jobs.ReconcileAvailability.Schedule = "every now and then"

	_, err = jobs.NewScheduler(cfg, nil)
	assert.Error(t, err)
}
