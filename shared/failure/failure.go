// Package failure carries the HTTP status an error should surface with.
package failure

import (
	"errors"
	"net/http"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation = "23505"
	pqFkViolation     = "23503"
	pqCheckViolation  = "23514"
)

// Failure is an error with the HTTP status it maps to. Message is what the
// client sees.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

// StatusCode lets packages that must not import failure read the code.
func (e *Failure) StatusCode() int {
	return e.Code
}

func wrap(code int, err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: code, Message: err.Error(), cause: err}
}

func BadRequest(err error) error {
	return wrap(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return &Failure{Code: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) error {
	return &Failure{Code: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Failure{Code: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) error {
	return &Failure{Code: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &Failure{Code: http.StatusConflict, Message: msg}
}

// InternalError keeps the underlying message; 500 responses expose it as is.
func InternalError(err error) error {
	return wrap(http.StatusInternalServerError, err)
}

// FromDatabase translates Postgres constraint violations into client
// failures. Any other error is returned unchanged.
func FromDatabase(err error, conflictMsg string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return Conflict(conflictMsg)
	case pqFkViolation:
		return BadRequestFromString("referenced record does not exist")
	case pqCheckViolation:
		return BadRequestFromString("value violates constraint " + pqErr.Constraint)
	default:
		return err
	}
}

// GetCode returns the status of the first Failure in err's chain, 500 if none.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
