package failure

import (
	"database/sql/driver"
	"errors"
	"net"
	"net/http"
)

// Failure carries an HTTP status code alongside the message shown to API clients.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var StoreUnavailable = &Failure{Code: http.StatusServiceUnavailable, Message: "data store unavailable"}

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest turns a validation error into a 400. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: http.StatusBadRequest, Message: err.Error()}
}

func BadRequestFromString(msg string) error {
	return &Failure{Code: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) error {
	return &Failure{Code: http.StatusUnauthorized, Message: msg}
}

func NotFound(msg string) error {
	return &Failure{Code: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &Failure{Code: http.StatusConflict, Message: msg}
}

// IsNetwork reports whether err comes from an unreachable data store.
func IsNetwork(err error) bool {
	var netErr net.Error

	return errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn)
}

// GetCode resolves the status for err: the wrapped Failure code, 503 for
// connection errors and 500 for anything else.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	if IsNetwork(err) {
		return StoreUnavailable.Code
	}

	return http.StatusInternalServerError
}
