package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"hostel/shared/failure"
	"hostel/transport/http/response"
)

func TestWithJSON_WritesPayloadWithoutEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, []map[string]string{{"_id": "r1"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"_id":"r1"}]`, rec.Body.String())
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", failure.NotFound("hostel not found"), http.StatusNotFound, `{"message":"hostel not found"}`},
		{"conflict", failure.Conflict("email already exists"), http.StatusConflict, `{"message":"email already exists"}`},
		{"forbidden", failure.ForbiddenError, http.StatusForbidden, `{"message":"You don't have the required permissions"}`},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, `{"message":"pq: connection refused"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithMessage(rec, http.StatusOK, "Room deleted successfully")

	assert.JSONEq(t, `{"message":"Room deleted successfully"}`, rec.Body.String())
}

func TestWithJSON_NilSliceIsEmptyArray(t *testing.T) {
	rec := httptest.NewRecorder()

	var rooms []map[string]string
	response.WithJSON(rec, http.StatusOK, rooms)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}
