// Package validator decodes request bodies and checks them against their
// `validate` tags. Failures surface as 400 failures with a readable message
// naming the JSON field.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"

	"hostel/permissions"
	"hostel/shared/constant"
	"hostel/shared/failure"
)

const bytesPerMB = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	rules := map[string]val.Func{
		"role":        isRole,
		"mimetypes":   hasMimeType,
		"maxfilesize": withinFileSize,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

func isRole(fl val.FieldLevel) bool {
	_, err := permissions.ParseRole(fl.Field().String())

	return err == nil
}

// hasMimeType checks the part's declared content type against a space
// separated allow list.
func hasMimeType(fl val.FieldLevel) bool {
	file, ok := fl.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	return slices.Contains(strings.Fields(fl.Param()), file.Header.Get(constant.RequestHeaderContentType))
}

// withinFileSize takes its limit in megabytes.
func withinFileSize(fl val.FieldLevel) bool {
	file, ok := fl.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	return float64(file.Size) <= limit*bytesPerMB
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}

	return name
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return asFailure(validate.Struct(data))
}

func ValidateVar(field any, tag string) error {
	return asFailure(validate.Var(field, tag))
}

// ValidateID rejects a path or query id that is not a UUID.
func ValidateID(name, value string) error {
	if err := validate.Var(value, "required,uuid"); err != nil {
		return failure.BadRequestFromString(name + " must be a valid id") //nolint:wrapcheck
	}

	return nil
}

func asFailure(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
}
