// Package response writes JSON bodies without an envelope: resources are
// written as is and errors as {"message": "..."}.
package response

import (
	"encoding/json"
	"net/http"
	"reflect"

	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/logger"
)

type Message struct {
	Message string `json:"message"`
}

var emptyArray = []byte("[]")

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: message})
}

// WithJSON writes payload. A nil slice is written as [] rather than null.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	if isNilSlice(payload) {
		writeRaw(writer, code, emptyArray)

		return
	}

	write(writer, code, payload)
}

// WithError maps err to its failure code. 500s are logged with a stack
// trace and still carry the underlying message.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorWithStack(err)
	}

	write(writer, code, Message{Message: err.Error()})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func isNilSlice(payload any) bool {
	value := reflect.ValueOf(payload)

	return value.Kind() == reflect.Slice && value.IsNil()
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writeRaw(writer, code, body)
}

func writeRaw(writer http.ResponseWriter, code int, body []byte) {
	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err := writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
