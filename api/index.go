package handler

import (
	"net/http"
	"sync"

	"hostel/config"
	"hostel/di"
	"hostel/shared/logger"
	transportHTTP "hostel/transport/http"
)

var (
	server *transportHTTP.HTTP
	once   sync.Once
)

// Handler is the serverless entrypoint. The service graph is built on the
// first request and reused afterwards.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
