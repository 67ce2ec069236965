package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"vrent/config"
	"vrent/infras/kafka"
	kafkaMocks "vrent/infras/kafka/mocks"
	otelMocks "vrent/infras/otel/mocks"
	customerMocks "vrent/internal/domains/customer/mocks"
	customerModel "vrent/internal/domains/customer/model"
	"vrent/internal/domains/rental/mocks"
	"vrent/internal/domains/rental/model"
	"vrent/internal/domains/rental/model/dto"
	"vrent/internal/domains/rental/service"
	vehicleMocks "vrent/internal/domains/vehicle/mocks"
	vehicleModel "vrent/internal/domains/vehicle/model"
	cacheMocks "vrent/shared/cache/mocks"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	gRepo "vrent/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	customerID = "6f1c2a3e-8d4b-4e6f-9a1b-2c3d4e5f6a7b"
	vehicleID  = "0b7e6c1d-2f3a-4b5c-8d9e-0f1a2b3c4d5e"
	rentalID   = "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e6f"
	missingID  = "00000000-0000-4000-8000-000000000000"
	topic      = "vrent.rental.events"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	f.calls++

	return fn(ctx, nil)
}

type fixture struct {
	repo      *mocks.MockRental
	customers *customerMocks.MockCustomer
	vehicles  *vehicleMocks.MockVehicle
	producer  *kafkaMocks.MockClient
	tx        *fakeTx
	service   service.Rental
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil")).AnyTimes()

	cfg := &config.Config{}
	cfg.Kafka.Topics.Rental = topic

	f := fixture{
		repo:      mocks.NewMockRental(ctrl),
		customers: customerMocks.NewMockCustomer(ctrl),
		vehicles:  vehicleMocks.NewMockVehicle(ctrl),
		producer:  kafkaMocks.NewMockClient(ctrl),
		tx:        &fakeTx{},
	}

	f.service = service.New(f.repo, f.customers, f.vehicles, f.tx, f.producer, cfg, redisCache, otelMocks.NewOtel())

	return f
}

// quiet accepts lifecycle events without asserting on them.
func (f fixture) quiet() {
	f.producer.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (f fixture) stored(rental model.Rental) {
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(rental, nil)
}

func validRequest() dto.CreateRentalRequest {
	return dto.CreateRentalRequest{
		CustomerID: customerID,
		VehicleID:  vehicleID,
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-04",
	}
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	f.quiet()

	f.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customerModel.Customer{ID: customerID, Name: "Ana"}, nil)
	f.vehicles.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleModel.Vehicle{
		ID: vehicleID, Brand: "Fiat", Model: "Uno", IsAvailable: true, DailyRate: decimal.RequireFromString("100.00"),
	}, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, rental model.Rental) error {
		assert.Equal(t, model.StatusPending, rental.Status)
		assert.Equal(t, 3, rental.DaysRented)
		assert.True(t, decimal.RequireFromString("300.00").Equal(rental.TotalAmount))

		return nil
	})
	f.vehicles.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, false, fields[vehicleModel.FieldIsAvailable])

			return nil
		})

	res, err := f.service.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, 3, res.DaysRented)
	assert.Equal(t, "300.00", res.TotalAmount)
	assert.Equal(t, "Ana", res.CustomerName)
	assert.Equal(t, 1, f.tx.calls)
}

func TestCreate_InvalidPeriodTouchesNoRepository(t *testing.T) {
	for _, end := range []string{"2024-01-01", "2023-12-31"} {
		f := newFixture(t)

		req := validRequest()
		req.EndDate = end

		_, err := f.service.Create(context.Background(), req)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err), end)
		assert.Zero(t, f.tx.calls)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), dto.CreateRentalRequest{StartDate: "2024-01-01", EndDate: "2024-01-04"})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	req := validRequest()
	req.StartDate = "01/01/2024"

	_, err = f.service.Create(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestCreate_CustomerNotFound(t *testing.T) {
	f := newFixture(t)

	f.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customerModel.Customer{}, nil)

	_, err := f.service.Create(context.Background(), validRequest())
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	assert.EqualError(t, err, "customer not found")
}

func TestCreate_VehicleNotFound(t *testing.T) {
	f := newFixture(t)

	f.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil)
	f.vehicles.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleModel.Vehicle{}, nil)

	_, err := f.service.Create(context.Background(), validRequest())
	assert.EqualError(t, err, "vehicle not found")
}

func TestCreate_VehicleUnavailable(t *testing.T) {
	f := newFixture(t)

	f.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil)
	f.vehicles.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleModel.Vehicle{ID: vehicleID, IsAvailable: false}, nil)

	_, err := f.service.Create(context.Background(), validRequest())
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.EqualError(t, err, "vehicle is not available")
	assert.Zero(t, f.tx.calls)
}

func TestCreate_ConcurrentBookingLosesOnIndex(t *testing.T) {
	f := newFixture(t)

	f.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil)
	f.vehicles.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleModel.Vehicle{ID: vehicleID, IsAvailable: true, DailyRate: decimal.NewFromInt(80)}, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&pq.Error{Code: "23505", Constraint: model.ConstraintOpenVehicle})

	_, err := f.service.Create(context.Background(), validRequest())
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestActivate(t *testing.T) {
	f := newFixture(t)
	f.quiet()

	f.stored(model.Rental{ID: rentalID, VehicleID: vehicleID, Status: model.StatusPending})
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
		assert.Equal(t, model.StatusActive, fields[model.FieldStatus])

		return nil
	})
	f.stored(model.Rental{ID: rentalID, VehicleID: vehicleID, Status: model.StatusActive})

	res, err := f.service.Activate(context.Background(), rentalID)
	require.NoError(t, err)
	assert.Equal(t, "active", res.Status)
	assert.Zero(t, f.tx.calls)
}

func TestActivate_Twice(t *testing.T) {
	f := newFixture(t)

	f.stored(model.Rental{ID: rentalID, Status: model.StatusActive})

	_, err := f.service.Activate(context.Background(), rentalID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture(t)

	f.stored(model.Rental{ID: rentalID, Status: model.StatusCancelled})

	_, err := f.service.Cancel(context.Background(), rentalID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Zero(t, f.tx.calls)
}

func TestCancel_LostRace(t *testing.T) {
	f := newFixture(t)

	f.stored(model.Rental{ID: rentalID, VehicleID: vehicleID, Status: model.StatusPending})
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ map[string]any, filter gDto.FilterGroup) error {
			_, args := filter.GetWhereClause()
			assert.Equal(t, rentalID, args[model.FieldID])
			assert.Equal(t, "pending", args[model.FieldStatus])

			return fmt.Errorf("failed to update data (rental): %w", gRepo.ErrNoRowsAffected)
		})

	_, err := f.service.Cancel(context.Background(), rentalID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestComplete_ReleasesVehicleAndPublishes(t *testing.T) {
	f := newFixture(t)

	published := make(chan dto.RentalEvent, 1)

	f.stored(model.Rental{ID: rentalID, VehicleID: vehicleID, Status: model.StatusActive})
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.vehicles.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
			assert.Equal(t, true, fields[vehicleModel.FieldIsAvailable])

			_, args := filter.GetWhereClause()
			assert.Equal(t, vehicleID, args[vehicleModel.FieldID])

			return nil
		})
	f.stored(model.Rental{ID: rentalID, VehicleID: vehicleID, Status: model.StatusCompleted})
	f.producer.EXPECT().SendMessages(gomock.Any(), topic, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			event, ok := messages[0].Value.(dto.RentalEvent)
			assert.True(t, ok)
			published <- event

			return nil
		})

	res, err := f.service.Complete(context.Background(), rentalID)
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, 1, f.tx.calls)

	select {
	case event := <-published:
		assert.Equal(t, service.EventCompleted, event.Type)
		assert.Equal(t, "completed", event.Status)
	case <-time.After(time.Second):
		t.Fatal("rental event was not published")
	}
}

func TestUpdate_RecomputesWithFrozenRate(t *testing.T) {
	f := newFixture(t)

	f.stored(model.Rental{
		ID: rentalID, Status: model.StatusPending, StartDate: day(1), EndDate: day(4),
		DailyRate: decimal.RequireFromString("100.00"),
	})
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
		assert.Equal(t, 5, fields[model.FieldDaysRented])
		assert.True(t, decimal.RequireFromString("500.00").Equal(fields[model.FieldTotalAmount].(decimal.Decimal)))
		assert.NotContains(t, fields, model.FieldNotes)

		return nil
	})
	f.stored(model.Rental{ID: rentalID, Status: model.StatusPending, DaysRented: 5})

	res, err := f.service.Update(context.Background(), dto.UpdateRentalRequest{EndDate: "2024-01-06"}, rentalID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.DaysRented)
}

func TestUpdate_CompletedIsNotEditable(t *testing.T) {
	f := newFixture(t)

	f.stored(model.Rental{ID: rentalID, Status: model.StatusCompleted})

	notes := "returned with a scratch"

	_, err := f.service.Update(context.Background(), dto.UpdateRentalRequest{Notes: &notes}, rentalID)
	assert.ErrorIs(t, err, model.ErrRentalNotEditable)
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
}

func TestDelete_OpenRentalReleasesVehicle(t *testing.T) {
	f := newFixture(t)
	f.quiet()

	f.stored(model.Rental{ID: rentalID, VehicleID: vehicleID, Status: model.StatusPending})
	f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.vehicles.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, f.service.Delete(context.Background(), rentalID))
	assert.Equal(t, 1, f.tx.calls)
}

func TestDelete_ClosedRental(t *testing.T) {
	f := newFixture(t)
	f.quiet()

	f.stored(model.Rental{ID: rentalID, VehicleID: vehicleID, Status: model.StatusCompleted})
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, f.service.Delete(context.Background(), rentalID))
	assert.Zero(t, f.tx.calls)
}

func TestByCustomer_UnknownCustomer(t *testing.T) {
	f := newFixture(t)

	f.customers.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	_, err := f.service.ByCustomer(context.Background(), missingID, gDto.QueryParams{Page: 1, Limit: 10})
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestMalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Get(context.Background(), "abc")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	_, err = f.service.Cancel(context.Background(), "abc")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	_, err = f.service.Update(context.Background(), dto.UpdateRentalRequest{}, "abc")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	err = f.service.Delete(context.Background(), "abc")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	_, err = f.service.ByCustomer(context.Background(), "abc", gDto.QueryParams{Page: 1, Limit: 10})
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	_, err = f.service.ByVehicle(context.Background(), "abc", gDto.QueryParams{Page: 1, Limit: 10})
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestActive(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Rental, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, model.StatusActive, args[model.FieldStatus])

			return []model.Rental{{ID: rentalID, Status: model.StatusActive}}, nil
		})

	res, err := f.service.Active(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Rentals, 1)
}
