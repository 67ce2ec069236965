package router

import (
	"vrent/internal/handlers/customer"
	"vrent/internal/handlers/dashboard"
	"vrent/internal/handlers/portal"
	"vrent/internal/handlers/rental"
	"vrent/internal/handlers/vehicle"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Customer  customer.Handler
	Vehicle   vehicle.Handler
	Rental    rental.Handler
	Portal    portal.Handler
	Dashboard dashboard.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Customer.Router(routerGroup)
		r.DomainHandlers.Vehicle.Router(routerGroup)
		r.DomainHandlers.Rental.Router(routerGroup)
		r.DomainHandlers.Portal.Router(routerGroup)
		r.DomainHandlers.Dashboard.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
