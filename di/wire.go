//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"hostel/config"
	"hostel/infras/jwt"
	"hostel/infras/kafka"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/infras/s3"
	"hostel/internal/events"
	"hostel/permissions"
	"hostel/shared/cache"
	"hostel/transport/http"
	"hostel/transport/http/middleware"
	"hostel/transport/http/router"

	authService "hostel/internal/domains/auth/service"
	hostelRepository "hostel/internal/domains/hostel/repository"
	hostelService "hostel/internal/domains/hostel/service"
	roomRepository "hostel/internal/domains/room/repository"
	roomService "hostel/internal/domains/room/service"
	userRepository "hostel/internal/domains/user/repository"
	userService "hostel/internal/domains/user/service"

	authHandler "hostel/internal/handlers/auth"
	hostelHandler "hostel/internal/handlers/hostel"
	roomHandler "hostel/internal/handlers/room"
	userHandler "hostel/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.New,
	events.NewPublisher,
)

var repositories = wire.NewSet(
	userRepository.New,
	hostelRepository.New,
	roomRepository.New,
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	hostelService.New,
	roomService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	hostelHandler.New,
	roomHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeServices() *Services {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		repositories,
		domains,
		wire.Struct(new(Services), "*"),
	)

	return &Services{}
}

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
