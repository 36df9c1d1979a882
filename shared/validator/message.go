package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"

	"hostel/permissions"
)

type describe func(field, param string, kind reflect.Kind) string

func fixed(format string) describe {
	return func(field, param string, _ reflect.Kind) string {
		if strings.Contains(format, "%[2]s") {
			return fmt.Sprintf(format, field, param)
		}

		return fmt.Sprintf(format, field)
	}
}

// bound words a min/max rule as a length for strings and collections.
func bound(numeric, sized string) describe {
	return func(field, param string, kind reflect.Kind) string {
		switch kind {
		case reflect.String:
			return fmt.Sprintf("%s must be %s %s characters", field, sized, param)
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("%s must contain %s %s items", field, sized, param)
		default:
			return fmt.Sprintf("%s must be %s %s", field, numeric, param)
		}
	}
}

var descriptions = map[string]describe{
	"required":         fixed("%s is required"),
	"required_without": fixed("%s is required"),
	"email":            fixed("%s must be a valid email address"),
	"uuid":             fixed("%s must be a valid id"),
	"oneof":            fixed("%s must be one of %[2]s"),
	"mimetypes":        fixed("%s must be one of %[2]s"),
	"maxfilesize":      fixed("%s must not be larger than %[2]s MB"),
	"min":              bound("greater than or equal to", "at least"),
	"gte":              bound("greater than or equal to", "at least"),
	"max":              bound("less than or equal to", "at most"),
	"lte":              bound("less than or equal to", "at most"),
	"role": func(field, _ string, _ reflect.Kind) string {
		names := make([]string, len(permissions.Roles))
		for i, role := range permissions.Roles {
			names[i] = role.String()
		}

		return fmt.Sprintf("%s must be one of %s", field, strings.Join(names, " "))
	},
}

// message turns the first described validation failure into a client
// facing sentence.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fieldErr := range fieldErrors {
		if desc, ok := descriptions[fieldErr.Tag()]; ok {
			return desc(fieldErr.Field(), fieldErr.Param(), fieldErr.Kind())
		}
	}

	return fieldErrors.Error()
}
