package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hostel/infras/otel"
	"hostel/internal/domains/auth/service"
	"hostel/shared/constant"
	"hostel/shared/validator"
	"hostel/transport/http/response"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handler.Login)
		r.Post("/refresh-token", handler.RefreshToken)
		r.Get("/me", handler.Me)
	})
}

// Login handles user login
// @Summary Login a user
// @Description Exchange email and password for an access and refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	exchange(handler, w, r, "Login", handler.service.Login)
}

// RefreshToken handles token refresh
// @Summary Refresh user token
// @Description Issue a new token pair from a valid refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} response.Message
// @Failure 401 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	exchange(handler, w, r, "RefreshToken", handler.service.RefreshToken)
}

// exchange decodes a credential request, hands it to the service and writes
// the issued tokens.
func exchange[Req, Res any](handler *Handler, w http.ResponseWriter, r *http.Request, op string, issue func(context.Context, Req) (Res, error)) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+op)
	defer scope.End()

	var req Req

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("op", op).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := issue(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("op", op).Msg("token exchange rejected")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tokens issued")

	response.WithJSON(w, http.StatusOK, res)
}

// Me returns the authenticated user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} userDto.UserResponse
// @Failure 401 {object} response.Message
// @Router /api/auth/me [get]
// @Security BearerAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Me")
	defer scope.End()

	res, err := handler.service.Me(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to load current user")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
