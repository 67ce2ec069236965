package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"vrent/shared/failure"
	"vrent/transport/http/response"

	"github.com/stretchr/testify/assert"
)

type netError struct{}

func (*netError) Error() string   { return "dial tcp 10.0.0.5:5432: connect: connection refused" }
func (*netError) Timeout() bool   { return false }
func (*netError) Temporary() bool { return false }

func TestWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "client error keeps its detail",
			err:  fmt.Errorf("%w: cannot activate a active rental", &failure.Failure{Code: http.StatusConflict, Message: "invalid status transition"}),
			code: http.StatusConflict,
			body: `{"error":"invalid status transition: cannot activate a active rental"}`,
		},
		{
			name: "not found",
			err:  failure.NotFound("rental not found"),
			code: http.StatusNotFound,
			body: `{"error":"rental not found"}`,
		},
		{
			name: "unexpected error is hidden",
			err:  errors.New(`pq: relation "rentals" does not exist`),
			code: http.StatusInternalServerError,
			body: `{"error":"internal server error"}`,
		},
		{
			name: "unreachable store",
			err:  fmt.Errorf("failed to get rental: %w", &netError{}),
			code: http.StatusServiceUnavailable,
			body: `{"error":"data store unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.code, recorder.Code)
			assert.JSONEq(t, tt.body, recorder.Body.String())
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
		})
	}
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]string{"id": "r-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"r-1"}}`, recorder.Body.String())
}

func TestWithRequestLimitExceeded(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithRequestLimitExceeded(recorder)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, recorder.Body.String())
}
