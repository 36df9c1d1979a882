package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "hostel/infras/otel/mocks"
	"hostel/internal/domains/auth/mocks"
	"hostel/internal/domains/auth/model/dto"
	userDto "hostel/internal/domains/user/model/dto"
	"hostel/internal/handlers/auth"
	"hostel/shared/failure"
)

func newHandler(t *testing.T) (http.Handler, *mocks.MockAuth) {
	t.Helper()

	svc := mocks.NewMockAuth(gomock.NewController(t))
	handler := auth.New(svc, otelMocks.NewOtel())

	r := chi.NewRouter()
	handler.Router(r)

	return r, svc
}

func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, svc := newHandler(t)

		svc.EXPECT().Login(gomock.Any(), dto.LoginRequest{Email: "o1@x.com", Password: "secret1"}).
			Return(dto.LoginResponse{TokenResponse: dto.TokenResponse{Token: "t", RefreshToken: "r"}, User: userDto.UserResponse{ID: "u1"}}, nil)

		rec := serve(handler, http.MethodPost, "/auth/login", `{"email":"o1@x.com","password":"secret1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":"t"`)
		assert.Contains(t, rec.Body.String(), `"_id":"u1"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		handler, svc := newHandler(t)

		svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.LoginResponse{}, failure.BadRequestFromString("invalid email or password"))

		rec := serve(handler, http.MethodPost, "/auth/login", `{"email":"o1@x.com","password":"wrong"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"invalid email or password"}`, rec.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, _ := newHandler(t)

		rec := serve(handler, http.MethodPost, "/auth/login", `{"email":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	handler, svc := newHandler(t)

	svc.EXPECT().RefreshToken(gomock.Any(), dto.RefreshTokenRequest{RefreshToken: "r"}).Return(dto.TokenResponse{}, failure.Unauthorized("invalid token"))

	rec := serve(handler, http.MethodPost, "/auth/refresh-token", `{"refreshToken":"r"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	handler, svc := newHandler(t)

	svc.EXPECT().Me(gomock.Any()).Return(userDto.UserResponse{ID: "u1", Role: "admin"}, nil)

	rec := serve(handler, http.MethodGet, "/auth/me", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}
