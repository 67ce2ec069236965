package dashboard_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "vrent/infras/otel/mocks"
	"vrent/internal/domains/dashboard/mocks"
	"vrent/internal/domains/dashboard/model/dto"
	"vrent/internal/handlers/dashboard"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func serve(t *testing.T, setup func(service *mocks.MockDashboardService)) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockDashboardService(ctrl)
	setup(service)

	handler := dashboard.New(service, otelMocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	return recorder
}

func TestGetStats(t *testing.T) {
	recorder := serve(t, func(service *mocks.MockDashboardService) {
		service.EXPECT().Stats(gomock.Any()).Return(dto.StatsResponse{TotalVehicles: 12, AvailableVehicles: 9, Revenue: "4200.00"}, nil)
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"available_vehicles":9`)
	assert.Contains(t, recorder.Body.String(), `"revenue":"4200.00"`)
}

func TestGetStats_HidesInternalErrors(t *testing.T) {
	recorder := serve(t, func(service *mocks.MockDashboardService) {
		service.EXPECT().Stats(gomock.Any()).Return(dto.StatsResponse{}, errors.New(`pq: column "revenue" does not exist`))
	})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, recorder.Body.String())
}
