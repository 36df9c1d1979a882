package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"hostel/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"bad request", failure.BadRequest(errors.New("bad body")), http.StatusBadRequest, "bad body"},
		{"bad request from string", failure.BadRequestFromString("capacity must be positive"), http.StatusBadRequest, "capacity must be positive"},
		{"unauthorized", failure.Unauthorized("invalid token"), http.StatusUnauthorized, "invalid token"},
		{"forbidden", failure.Forbidden("not your hostel"), http.StatusForbidden, "not your hostel"},
		{"not found", failure.NotFound("room not found"), http.StatusNotFound, "room not found"},
		{"conflict", failure.Conflict("email already registered"), http.StatusConflict, "email already registered"},
		{"internal", failure.InternalError(errors.New("boom")), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestNilInputs(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", failure.NotFound("hostel not found"))

	assert.Equal(t, http.StatusNotFound, failure.GetCode(wrapped))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ForbiddenError))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("plain")))
}

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unique violation", &pq.Error{Code: "23505"}, http.StatusConflict},
		{"fk violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23503"}), http.StatusBadRequest},
		{"check violation", &pq.Error{Code: "23514", Constraint: "rooms_occupancy_check"}, http.StatusBadRequest},
		{"other pq error", &pq.Error{Code: "40001"}, http.StatusInternalServerError},
		{"non pq error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := failure.FromDatabase(tt.err, "already exists")

			assert.Equal(t, tt.code, failure.GetCode(got))
		})
	}
}

func TestWrappedCauseIsKept(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := failure.InternalError(cause)

	assert.ErrorIs(t, err, cause)

	var fail *failure.Failure
	assert.ErrorAs(t, err, &fail)
	assert.Equal(t, http.StatusInternalServerError, fail.StatusCode())
}
