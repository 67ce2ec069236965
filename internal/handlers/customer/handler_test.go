package customer_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "vrent/infras/otel/mocks"
	"vrent/internal/domains/customer/mocks"
	"vrent/internal/domains/customer/model/dto"
	rentalMocks "vrent/internal/domains/rental/mocks"
	rentalDto "vrent/internal/domains/rental/model/dto"
	"vrent/internal/handlers/customer"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	service *mocks.MockCustomerService
	rentals *rentalMocks.MockRentalService
	router  chi.Router
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockCustomerService(ctrl)
	rentals := rentalMocks.NewMockRentalService(ctrl)

	handler := customer.New(service, rentals, otelMocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return fixture{service: service, rentals: rentals, router: router}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))

	return recorder
}

func TestCreateCustomer(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, req dto.CreateCustomerRequest) (dto.CustomerResponse, error) {
		assert.Equal(t, "Ana Souza", req.Name)

		return dto.CustomerResponse{ID: "c-1", Name: req.Name}, nil
	})

	recorder := f.do(http.MethodPost, "/customers", `{"name":"Ana Souza","tax_id":"12345678909","email":"ana@example.com"}`)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"id":"c-1"`)
}

func TestCreateCustomer_InvalidBody(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(http.MethodPost, "/customers", `{"name":"Ana Souza","tax_id":"123","email":"ana@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "tax_id")
}

func TestGetCustomers_Filters(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCustomersResponse, error) {
			assert.Equal(t, 2, params.Page)

			_, args := filter.GetWhereClause()
			assert.Equal(t, "SP", args["state"])

			return dto.GetCustomersResponse{TotalData: 1, TotalPage: 1}, nil
		})

	recorder := f.do(http.MethodGet, "/customers?page=2&state=sp", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetCustomerByTaxID(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().GetByTaxID(gomock.Any(), "12345678909").Return(dto.CustomerResponse{ID: "c-1"}, nil)

	recorder := f.do(http.MethodGet, "/customers/tax-id/12345678909", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetCustomerByID_NotFound(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Get(gomock.Any(), "missing").Return(dto.CustomerResponse{}, failure.NotFound("customer not found"))

	recorder := f.do(http.MethodGet, "/customers/missing", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.JSONEq(t, `{"error":"customer not found"}`, recorder.Body.String())
}

func TestGetCustomerRentals(t *testing.T) {
	f := newFixture(t)

	f.rentals.EXPECT().ByCustomer(gomock.Any(), "c-1", gomock.Any()).
		Return(rentalDto.GetRentalsResponse{Rentals: []rentalDto.RentalResponse{{ID: "r-1"}}, TotalData: 1, TotalPage: 1}, nil)

	recorder := f.do(http.MethodGet, "/customers/c-1/rentals", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"id":"r-1"`)
}

func TestUpdateCustomer(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Update(gomock.Any(), dto.UpdateCustomerRequest{City: "Campinas"}, "c-1").
		Return(dto.CustomerResponse{ID: "c-1", City: "Campinas"}, nil)

	recorder := f.do(http.MethodPatch, "/customers/c-1", `{"city":"Campinas"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestDeleteCustomer_Conflict(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Delete(gomock.Any(), "c-1").Return(failure.Conflict("customer has rentals and cannot be deleted"))

	recorder := f.do(http.MethodDelete, "/customers/c-1", "")

	assert.Equal(t, http.StatusConflict, recorder.Code)
}
