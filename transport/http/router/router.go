package router

import (
	"github.com/go-chi/chi/v5"

	"hostel/internal/handlers/auth"
	"hostel/internal/handlers/hostel"
	"hostel/internal/handlers/room"
	"hostel/internal/handlers/user"
)

type DomainHandlers struct {
	Auth   auth.Handler
	User   user.Handler
	Hostel hostel.Handler
	Room   room.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/api", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Hostel.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
