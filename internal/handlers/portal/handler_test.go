package portal_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vrent/config"
	"vrent/infras/jwt"
	otelMocks "vrent/infras/otel/mocks"
	customerDto "vrent/internal/domains/customer/model/dto"
	"vrent/internal/domains/portal/mocks"
	"vrent/internal/domains/portal/model"
	"vrent/internal/domains/portal/model/dto"
	rentalDto "vrent/internal/domains/rental/model/dto"
	"vrent/internal/handlers/portal"
	"vrent/shared/failure"
	"vrent/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const cookieName = "vrent_portal"

type fixture struct {
	service *mocks.MockPortalService
	router  chi.Router
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Portal.SessionCookieName = cookieName

	ctrl := gomock.NewController(t)
	service := mocks.NewMockPortalService(ctrl)
	ot := otelMocks.NewOtel()

	handler := portal.New(service, middleware.NewPortalSessionMiddleware(service, ot, cfg), cfg, ot)
	router := chi.NewRouter()
	handler.Router(router)

	return fixture{service: service, router: router}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	return recorder
}

func (f fixture) authenticated(method, target, body string) *http.Request {
	f.service.EXPECT().Authenticate("token-1").Return(model.Session{CustomerID: "c-1"}, nil)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-1")

	return req
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	expiresAt := time.Now().Add(time.Hour)

	f.service.EXPECT().Login(gomock.Any(), dto.LoginRequest{TaxID: "123.456.789-09"}).
		Return(&jwt.Session{Token: "token-1", TokenType: "Bearer", ExpiresAt: expiresAt, ExpiresIn: 3600}, nil)

	recorder := f.do(httptest.NewRequest(http.MethodPost, "/portal/sessions", strings.NewReader(`{"tax_id":"123.456.789-09"}`)))

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"token":"token-1"`)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.Equal(t, "token-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLogin_UnknownTaxID(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, failure.Unauthorized("no customer is registered with this tax id"))

	recorder := f.do(httptest.NewRequest(http.MethodPost, "/portal/sessions", strings.NewReader(`{"tax_id":"98765432100"}`)))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(httptest.NewRequest(http.MethodDelete, "/portal/sessions", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestProfile_RequiresSession(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(httptest.NewRequest(http.MethodGet, "/portal/me", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Profile(gomock.Any(), model.Session{CustomerID: "c-1"}).
		Return(customerDto.CustomerResponse{ID: "c-1", Name: "Ana"}, nil)

	recorder := f.do(f.authenticated(http.MethodGet, "/portal/me", ""))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"name":"Ana"`)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().UpdateProfile(gomock.Any(), model.Session{CustomerID: "c-1"}, dto.UpdateProfileRequest{City: "Santos"}).
		Return(customerDto.CustomerResponse{ID: "c-1", City: "Santos"}, nil)

	recorder := f.do(f.authenticated(http.MethodPatch, "/portal/me", `{"city":"Santos"}`))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestUpdateProfile_InvalidEmail(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(f.authenticated(http.MethodPatch, "/portal/me", `{"email":"not-an-email"}`))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRentals(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Rentals(gomock.Any(), model.Session{CustomerID: "c-1"}, gomock.Any()).
		Return(dto.RentalsResponse{
			GetRentalsResponse: rentalDto.GetRentalsResponse{TotalData: 2, TotalPage: 1},
			Stats:              dto.Stats{TotalRentals: 2, CompletedRentals: 1, TotalSpent: "300.00"},
		}, nil)

	recorder := f.do(f.authenticated(http.MethodGet, "/portal/me/rentals", ""))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total_spent":"300.00"`)
}
