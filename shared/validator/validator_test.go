package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel/shared/failure"
	"hostel/shared/validator"
)

type account struct {
	Name     string `json:"name"     validate:"required,max=10"`
	Email    string `json:"email"    validate:"required,email"`
	Role     string `json:"role"     validate:"required,role"`
	Capacity int    `json:"capacity" validate:"min=1"`
}

type upload struct {
	Image multipart.FileHeader `validate:"mimetypes=image/jpeg image/png,maxfilesize=1"`
}

func fileHeader(contentType string, size int64) multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)

	return multipart.FileHeader{Filename: "a", Header: header, Size: size}
}

func TestValidateStruct(t *testing.T) {
	valid := account{Name: "Jane", Email: "jane@example.com", Role: "owner", Capacity: 1}

	tests := []struct {
		name    string
		mutate  func(a *account)
		message string
	}{
		{name: "valid"},
		{name: "missing name", mutate: func(a *account) { a.Name = "" }, message: "name is required"},
		{name: "long name", mutate: func(a *account) { a.Name = "abcdefghijk" }, message: "name must be at most 10 characters"},
		{name: "bad email", mutate: func(a *account) { a.Email = "nope" }, message: "email must be a valid email address"},
		{name: "unknown role", mutate: func(a *account) { a.Role = "guest" }, message: "role must be one of superadmin admin owner"},
		{name: "capacity", mutate: func(a *account) { a.Capacity = 0 }, message: "capacity must be greater than or equal to 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := valid
			if tt.mutate != nil {
				tt.mutate(&data)
			}

			err := validator.ValidateStruct(&data)
			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidate_DecodesBody(t *testing.T) {
	var data account

	err := validator.Validate(strings.NewReader(`{"name":"Jane","email":"jane@example.com","role":"admin","capacity":2}`), &data)
	require.NoError(t, err)
	assert.Equal(t, "admin", data.Role)

	err = validator.Validate(strings.NewReader(`{"name":`), &data)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestValidateStruct_Files(t *testing.T) {
	ok := upload{Image: fileHeader("image/png", 512)}
	assert.NoError(t, validator.ValidateStruct(&ok))

	wrongType := upload{Image: fileHeader("application/pdf", 512)}
	assert.Error(t, validator.ValidateStruct(&wrongType))

	tooLarge := upload{Image: fileHeader("image/jpeg", 2<<20)}
	assert.Error(t, validator.ValidateStruct(&tooLarge))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("superadmin", "role"))
	assert.Error(t, validator.ValidateVar("root", "role"))
	assert.NoError(t, validator.ValidateVar("a@b.co", "email"))
}
