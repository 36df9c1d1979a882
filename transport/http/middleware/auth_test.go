package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostel/config"
	otelMocks "hostel/infras/otel/mocks"
	authMocks "hostel/internal/domains/auth/mocks"
	"hostel/permissions"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/transport/http/middleware"
)

const apiKey = "internal-key"

func newRouter(t *testing.T) (http.Handler, *authMocks.MockAuth) {
	t.Helper()

	ctrl := gomock.NewController(t)
	auth := authMocks.NewMockAuth(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	m := middleware.NewAuthRoleMiddleware(auth, otelMocks.NewOtel(), permissions.Get(), cfg)

	whoami := func(w http.ResponseWriter, r *http.Request) {
		identity, _ := permissions.IdentityFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]string{"id": identity.ID, "role": identity.Role.String()})
	}

	r := chi.NewRouter()
	r.Group(func(g chi.Router) {
		g.Use(m.APIKey, m.Auth, m.RBAC)

		g.Route("/api", func(api chi.Router) {
			api.Post("/auth/login", whoami)
			api.Get("/auth/me", whoami)
			api.Route("/users", func(users chi.Router) {
				users.Get("/", whoami)
			})
			api.Route("/hostels", func(hostels chi.Router) {
				hostels.Get("/", whoami)
				hostels.Delete("/{id}", whoami)
			})
			api.Get("/unmapped", whoami)
		})
	})

	return r, auth
}

func do(handler http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{constant.RequestHeaderAuthorization: "Bearer " + token}
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Message
}

func TestAuth_PublicRouteSkipsAuthentication(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(router, http.MethodPost, "/api/auth/login", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingToken(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(router, http.MethodGet, "/api/hostels", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, message(t, rec))
}

func TestAuth_MalformedHeader(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(router, http.MethodGet, "/api/hostels", map[string]string{constant.RequestHeaderAuthorization: "Token abc"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RejectedToken(t *testing.T) {
	router, auth := newRouter(t)

	auth.EXPECT().Authenticate(gomock.Any(), "stale").Return(permissions.Identity{}, failure.Unauthorized("user account is deactivated"))

	rec := do(router, http.MethodGet, "/api/hostels", bearer("stale"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user account is deactivated", message(t, rec))
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name   string
		role   permissions.Role
		method string
		path   string
		code   int
	}{
		{"owner lists hostels", permissions.RoleOwner, http.MethodGet, "/api/hostels", http.StatusOK},
		{"owner reads self", permissions.RoleOwner, http.MethodGet, "/api/auth/me", http.StatusOK},
		{"owner cannot list users", permissions.RoleOwner, http.MethodGet, "/api/users", http.StatusForbidden},
		{"owner cannot delete hostel", permissions.RoleOwner, http.MethodDelete, "/api/hostels/h1", http.StatusForbidden},
		{"admin lists users", permissions.RoleAdmin, http.MethodGet, "/api/users", http.StatusOK},
		{"admin deletes hostel", permissions.RoleAdmin, http.MethodDelete, "/api/hostels/h1", http.StatusOK},
		{"route without permission entry", permissions.RoleSuperAdmin, http.MethodGet, "/api/unmapped", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := newRouter(t)

			auth.EXPECT().Authenticate(gomock.Any(), "token").Return(permissions.Identity{ID: "u1", Role: tt.role}, nil)

			rec := do(router, tt.method, tt.path, bearer("token"))

			assert.Equal(t, tt.code, rec.Code)

			if tt.code == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "u1", body["id"])
				assert.Equal(t, tt.role.String(), body["role"])
			}
		})
	}
}

func TestAPIKey(t *testing.T) {
	t.Run("valid key runs as system", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodGet, "/api/users", map[string]string{constant.RequestHeaderAPIKey: apiKey})

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, constant.ContextSystem, body["id"])
		assert.Equal(t, permissions.RoleSuperAdmin.String(), body["role"])
	})

	t.Run("wrong key", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodGet, "/api/users", map[string]string{constant.RequestHeaderAPIKey: "nope"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
