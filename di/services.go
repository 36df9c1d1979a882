package di

import (
	"hostel/config"
	"hostel/infras/kafka"
	"hostel/infras/otel"
	hostelService "hostel/internal/domains/hostel/service"
	userService "hostel/internal/domains/user/service"
	"hostel/transport/http"
)

// Services is the service graph used outside the HTTP server: the startup
// bootstrap and the reconciliation worker.
type Services struct {
	Config *config.Config
	User   userService.User
	Hostel hostelService.Hostel
	Kafka  kafka.Client
	Otel   otel.Otel
}

// App is the API server together with the services it bootstraps on start.
type App struct {
	HTTP *http.HTTP
	User userService.User
}
