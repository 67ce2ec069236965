package service_test

import (
	"context"
	"net/http"
	"testing"

	"vrent/config"
	"vrent/infras/jwt"
	otelMocks "vrent/infras/otel/mocks"
	customerMocks "vrent/internal/domains/customer/mocks"
	customerDto "vrent/internal/domains/customer/model/dto"
	"vrent/internal/domains/portal/model"
	"vrent/internal/domains/portal/model/dto"
	"vrent/internal/domains/portal/service"
	rentalMocks "vrent/internal/domains/rental/mocks"
	rentalDto "vrent/internal/domains/rental/model/dto"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	customers *customerMocks.MockCustomerService
	rentals   *rentalMocks.MockRentalService
	rentalDB  *rentalMocks.MockRental
	service   service.Portal
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Portal.SessionSecret = "portal-test-secret"
	cfg.Portal.SessionExpireMin = 30

	f := fixture{
		customers: customerMocks.NewMockCustomerService(ctrl),
		rentals:   rentalMocks.NewMockRentalService(ctrl),
		rentalDB:  rentalMocks.NewMockRental(ctrl),
	}

	f.service = service.New(f.customers, f.rentals, f.rentalDB, jwt.New(cfg), otelMocks.NewOtel())

	return f
}

func TestLoginThenAuthenticate(t *testing.T) {
	f := newFixture(t)

	f.customers.EXPECT().GetByTaxID(gomock.Any(), "123.456.789-09").Return(customerDto.CustomerResponse{ID: "c-1"}, nil)

	session, err := f.service.Login(context.Background(), dto.LoginRequest{TaxID: "123.456.789-09"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", session.TokenType)

	authenticated, err := f.service.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "c-1", authenticated.CustomerID)
	assert.False(t, authenticated.ExpiresAt.IsZero())
}

func TestLogin_UnknownTaxID(t *testing.T) {
	f := newFixture(t)

	f.customers.EXPECT().GetByTaxID(gomock.Any(), gomock.Any()).Return(customerDto.CustomerResponse{}, failure.NotFound("customer not found"))

	_, err := f.service.Login(context.Background(), dto.LoginRequest{TaxID: "12345678909"})
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestLogin_MalformedTaxID(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), dto.LoginRequest{TaxID: "abc"})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestAuthenticate_Garbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Authenticate("not-a-token")
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestUpdateProfile_OnlyTouchesSessionCustomer(t *testing.T) {
	f := newFixture(t)

	f.customers.EXPECT().Update(gomock.Any(), customerDto.UpdateCustomerRequest{Phone: "+55 11 99999-0000"}, "c-1").
		Return(customerDto.CustomerResponse{ID: "c-1", Phone: "+55 11 99999-0000"}, nil)

	res, err := f.service.UpdateProfile(context.Background(), model.Session{CustomerID: "c-1"}, dto.UpdateProfileRequest{Phone: "+55 11 99999-0000"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", res.ID)
}

func TestRentals_WithStats(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 10}

	f.rentals.EXPECT().ByCustomer(gomock.Any(), "c-1", params).Return(rentalDto.GetRentalsResponse{
		Rentals:   []rentalDto.RentalResponse{{ID: "r-1"}, {ID: "r-2"}, {ID: "r-3"}},
		TotalData: 3,
		TotalPage: 1,
	}, nil)
	f.rentalDB.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.rentalDB.EXPECT().Sum(gomock.Any(), "total_amount", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, filter gDto.FilterGroup) (decimal.Decimal, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "c-1", args["customer_id"])

			return decimal.RequireFromString("450.5"), nil
		})

	res, err := f.service.Rentals(context.Background(), model.Session{CustomerID: "c-1"}, params)
	require.NoError(t, err)

	assert.Len(t, res.Rentals, 3)
	assert.Equal(t, 3, res.Stats.TotalRentals)
	assert.Equal(t, 2, res.Stats.CompletedRentals)
	assert.Equal(t, "450.50", res.Stats.TotalSpent)
}

func TestSessionContext(t *testing.T) {
	_, ok := model.SessionFromContext(context.Background())
	assert.False(t, ok)

	ctx := model.WithSession(context.Background(), model.Session{CustomerID: "c-1"})

	session, ok := model.SessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "c-1", session.CustomerID)
}
