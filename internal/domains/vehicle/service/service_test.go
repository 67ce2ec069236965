package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"vrent/config"
	otelMocks "vrent/infras/otel/mocks"
	s3Mocks "vrent/infras/s3/mocks"
	rentalMocks "vrent/internal/domains/rental/mocks"
	"vrent/internal/domains/vehicle/mocks"
	"vrent/internal/domains/vehicle/model"
	"vrent/internal/domains/vehicle/model/dto"
	"vrent/internal/domains/vehicle/service"
	cacheMocks "vrent/shared/cache/mocks"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	vehicleID = "0b7e6c1d-2f3a-4b5c-8d9e-0f1a2b3c4d5e"
	missingID = "00000000-0000-4000-8000-000000000000"
)

type fixture struct {
	repo    *mocks.MockVehicle
	rentals *rentalMocks.MockRental
	storage *s3Mocks.MockS3
	cache   *cacheMocks.MockRedisCache
	service service.Vehicle
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		repo:    mocks.NewMockVehicle(ctrl),
		rentals: rentalMocks.NewMockRental(ctrl),
		storage: s3Mocks.NewMockS3(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil")).AnyTimes()

	f.service = service.New(f.repo, f.rentals, f.storage, &config.Config{}, f.cache, otelMocks.NewOtel())

	return f
}

func (f fixture) found(vehicle model.Vehicle) {
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, vehicle model.Vehicle) error {
		assert.Equal(t, "ABC1D23", vehicle.Plate)
		assert.True(t, vehicle.IsAvailable)
		assert.Empty(t, vehicle.PhotoURL)

		return nil
	})

	res, err := f.service.Create(context.Background(), dto.CreateVehicleRequest{
		Brand: "Fiat", Model: "Uno", Year: 2020, Plate: "abc1d23", DailyRate: decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.Equal(t, "100.00", res.DailyRate)
}

func TestCreate_WithPhoto(t *testing.T) {
	f := newFixture(t)

	f.storage.EXPECT().
		UploadFileBytes(gomock.Any(), model.PhotoDirectory, gomock.Any(), "image/png", []byte("png")).
		DoAndReturn(func(_ context.Context, _, fileName, _ string, _ []byte) (string, error) {
			assert.True(t, strings.HasSuffix(fileName, ".png"))

			return "https://cdn.example.com/vehicles/" + fileName, nil
		})
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.service.Create(context.Background(), dto.CreateVehicleRequest{
		Brand: "Fiat", Model: "Uno", Year: 2020, Plate: "ABC1D23", DailyRate: decimal.NewFromInt(100),
		Photo: "data:image/png;base64,cG5n",
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.PhotoURL, "https://cdn.example.com/vehicles/"))
}

func TestCreate_NegativeRate(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), dto.CreateVehicleRequest{
		Brand: "Fiat", Model: "Uno", Year: 2020, Plate: "ABC1D23", DailyRate: decimal.NewFromInt(-5),
	})

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestCreate_DuplicatePlate(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		Return(&pq.Error{Code: "23505", Constraint: model.ConstraintPlate})

	_, err := f.service.Create(context.Background(), dto.CreateVehicleRequest{
		Brand: "Fiat", Model: "Uno", Year: 2020, Plate: "ABC1D23", DailyRate: decimal.NewFromInt(100),
	})

	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.EqualError(t, err, "plate already registered")
}

func TestAvailable(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Vehicle, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "vehicles.is_available = :is_available")
			assert.Contains(t, where, "vehicles.year = :year")
			assert.Equal(t, true, args["is_available"])

			return []model.Vehicle{{ID: vehicleID, IsAvailable: true}}, nil
		})

	year := 2020
	filter := (&dto.VehicleFilter{Year: &year}).ToFilterGroup()

	res, err := f.service.Available(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, filter)
	require.NoError(t, err)
	assert.Len(t, res.Vehicles, 1)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	f.found(model.Vehicle{})

	_, err := f.service.Get(context.Background(), missingID)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestMalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Get(context.Background(), "abc")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	_, err = f.service.UpdateAvailability(context.Background(), "abc", true)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	err = f.service.Delete(context.Background(), "abc")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	f.found(model.Vehicle{ID: vehicleID, Plate: "ABC1D23"})

	rate := decimal.NewFromInt(150)

	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
		assert.Equal(t, &rate, fields[model.FieldDailyRate])

		return nil
	})
	f.found(model.Vehicle{ID: vehicleID, DailyRate: rate})

	res, err := f.service.Update(context.Background(), dto.UpdateVehicleRequest{DailyRate: &rate}, vehicleID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", res.DailyRate)
}

func TestUpdateAvailability_HeldByOpenRental(t *testing.T) {
	f := newFixture(t)
	f.found(model.Vehicle{ID: vehicleID})

	f.rentals.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	_, err := f.service.UpdateAvailability(context.Background(), vehicleID, true)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestUpdateAvailability_MarkUnavailable(t *testing.T) {
	f := newFixture(t)
	f.found(model.Vehicle{ID: vehicleID, IsAvailable: true})

	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
		assert.Equal(t, false, fields[model.FieldIsAvailable])

		return nil
	})
	f.found(model.Vehicle{ID: vehicleID})

	res, err := f.service.UpdateAvailability(context.Background(), vehicleID, false)
	require.NoError(t, err)
	assert.False(t, res.IsAvailable)
}

func TestUploadPhoto(t *testing.T) {
	f := newFixture(t)
	f.found(model.Vehicle{ID: vehicleID, PhotoURL: "https://cdn.example.com/vehicles/old.png"})

	f.storage.EXPECT().Upload(gomock.Any(), model.PhotoDirectory, "v-1.jpg", "image/jpeg", gomock.Any()).
		Return("https://cdn.example.com/vehicles/v-1.jpg", nil)
	f.storage.EXPECT().GetObjectNameFromURL(gomock.Any()).Return("old.png").AnyTimes()
	f.storage.EXPECT().DeleteFile(gomock.Any(), model.PhotoDirectory, "old.png").Return(nil).AnyTimes()
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
		assert.Equal(t, "https://cdn.example.com/vehicles/v-1.jpg", fields[model.FieldPhotoURL])

		return nil
	})
	f.found(model.Vehicle{ID: vehicleID, PhotoURL: "https://cdn.example.com/vehicles/v-1.jpg"})

	res, err := f.service.UploadPhoto(context.Background(), vehicleID, "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/vehicles/v-1.jpg", res.PhotoURL)
}

func TestUploadPhoto_UnsupportedType(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.UploadPhoto(context.Background(), vehicleID, "application/pdf", strings.NewReader("pdf"))
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.found(model.Vehicle{ID: vehicleID})

	f.rentals.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, f.service.Delete(context.Background(), vehicleID))
}

func TestDelete_OpenRental(t *testing.T) {
	f := newFixture(t)
	f.found(model.Vehicle{ID: vehicleID})

	f.rentals.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	err := f.service.Delete(context.Background(), vehicleID)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestDelete_RentalHistory(t *testing.T) {
	f := newFixture(t)
	f.found(model.Vehicle{ID: vehicleID})

	f.rentals.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23503"})

	err := f.service.Delete(context.Background(), vehicleID)
	assert.EqualError(t, err, "vehicle has rental history and cannot be deleted")
}
