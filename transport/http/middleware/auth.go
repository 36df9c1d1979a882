package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hostel/config"
	"hostel/infras/jwt"
	"hostel/infras/otel"
	authService "hostel/internal/domains/auth/service"
	"hostel/permissions"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/transport/http/response"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	auth       authService.Auth
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

// NewAuthRoleMiddleware creates a new middleware instance
func NewAuthRoleMiddleware(auth authService.Auth, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		auth:       auth,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// routePattern resolves the chi pattern the request will be dispatched to.
func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}

func skipAuth(ctx context.Context) bool {
	skip, _ := ctx.Value(constant.ContextKeySkipAuth).(bool)

	return skip
}

// Auth resolves the bearer token to the stored user and puts the identity on
// the request context. Public routes pass through untouched.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		if skipAuth(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		path := routePattern(request)
		method := request.Method

		if m.permission != nil {
			if permission, ok := m.permission.FindPermissions(path, method); ok && permission.Skip {
				scope.End()
				next.ServeHTTP(writer, request)

				return
			}
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     method,
		})

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			err = failure.Unauthorized(err.Error())
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		identity, err := m.auth.Authenticate(ctx, tokenString)
		if err != nil {
			if failure.GetCode(err) != http.StatusUnauthorized {
				log.Error().Err(err).Msg("failed to authenticate request")
			}

			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		scope.SetAttribute("user.id", identity.ID)
		scope.End()

		next.ServeHTTP(writer, request.WithContext(permissions.WithIdentity(ctx, identity)))
	})
}

// RBAC checks the caller's role against the embedded permission table.
// Requires prior authentication via Auth middleware
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if skipAuth(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		path := routePattern(request)
		if path == "" {
			// unknown route, let the router answer 404/405
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		identity, _ := permissions.IdentityFromContext(ctx)

		if !m.permission.Authorize(identity.Role, path, request.Method) {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role": identity.Role.String(),
				"http.path": path,
				"reason":    "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// APIKey for internal service-to-service authentication using API key.
// A matching key runs the request as the system identity.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || apiKey != m.cfg.App.APIKey {
			err := failure.ForbiddenError

			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = permissions.WithIdentity(ctx, permissions.System)
		ctx = context.WithValue(ctx, constant.ContextKeySkipAuth, true)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
