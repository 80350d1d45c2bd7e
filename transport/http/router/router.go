package router

import (
	"github.com/go-chi/chi/v5"

	"tutorhub/internal/handlers/admin"
	"tutorhub/internal/handlers/auth"
	"tutorhub/internal/handlers/booking"
	"tutorhub/internal/handlers/category"
	"tutorhub/internal/handlers/review"
	"tutorhub/internal/handlers/schedule"
	"tutorhub/internal/handlers/tutor"
	"tutorhub/internal/handlers/user"
)

type DomainHandlers struct {
	Auth     auth.Handler
	User     user.Handler
	Tutor    tutor.Handler
	Schedule schedule.Handler
	Booking  booking.Handler
	Review   review.Handler
	Category category.Handler
	Admin    admin.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Tutor.Router(routerGroup)
		r.DomainHandlers.Schedule.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.Category.Router(routerGroup)
		r.DomainHandlers.Admin.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
