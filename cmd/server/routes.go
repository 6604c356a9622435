package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ukydev/school-transit/internal/handlers"
	"github.com/ukydev/school-transit/internal/middleware"
	"github.com/ukydev/school-transit/internal/models"
	"github.com/ukydev/school-transit/internal/response"
)

type routerDeps struct {
	authMiddleware *middleware.AuthMiddleware
	rateLimit      *middleware.RateLimitMiddleware

	auth          *handlers.AuthHandler
	trips         *handlers.TripHandler
	dispatch      *handlers.DispatchHandler
	notifications *handlers.NotificationHandler
	assignments   *handlers.AssignmentHandler
	refs          *handlers.RefHandler
}

func routes(deps *routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(deps.rateLimit.RateLimit(100, 60))
	r.Use(deps.authMiddleware.Authenticate)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, "ok", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.auth.Login)
			r.Post("/register", deps.auth.Register)
			r.Get("/profile", deps.auth.GetProfile)
		})

		r.Route("/trips", func(r chi.Router) {
			r.With(deps.authMiddleware.RequireRole(models.RoleSchoolAdmin)).
				Post("/", deps.trips.Create)
			r.Get("/{id}", deps.trips.Get)
			r.With(deps.authMiddleware.RequireAnyRole(models.RoleSchoolAdmin, models.RoleGateStaff, models.RoleDriver)).
				Post("/{id}/status", deps.trips.RecordStatus)
			r.Get("/{id}/status/latest", deps.trips.LatestStatus)
			r.Get("/{id}/status/history", deps.trips.StatusHistory)
		})

		r.Route("/dispatch-logs", func(r chi.Router) {
			r.With(deps.authMiddleware.RequireAnyRole(models.RoleSchoolAdmin, models.RoleGateStaff, models.RoleDriver)).
				Post("/create", deps.dispatch.Create)
			r.With(deps.authMiddleware.RequireAnyRole(models.RoleSchoolAdmin, models.RoleGateStaff, models.RoleDriver)).
				Put("/{id}", deps.dispatch.Update)
			r.With(deps.authMiddleware.RequirePermission("view_dispatch_logs")).
				Get("/trip/{tripId}", deps.dispatch.ListByTrip)
			r.With(deps.authMiddleware.RequirePermission("view_dispatch_logs")).
				Get("/vehicle/{vehicleId}", deps.dispatch.ListByVehicle)
		})

		r.Route("/gate-staff", func(r chi.Router) {
			r.Use(deps.authMiddleware.RequireAnyRole(models.RoleGateStaff, models.RoleDriver))
			r.Post("/mark-entry", deps.dispatch.MarkEntry)
			r.Post("/mark-exit", deps.dispatch.MarkExit)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/send", deps.notifications.Send)
			r.Put("/{id}/mark-sent", deps.notifications.MarkSent)
			r.Get("/{id}", deps.notifications.Get)
			r.Get("/dispatch/{dispatchLogId}", deps.notifications.ByDispatchLog)
		})

		r.Route("/vehicle-assignments", func(r chi.Router) {
			r.With(deps.authMiddleware.RequireRole(models.RoleVehicleOwner)).
				Post("/request", deps.assignments.Request)
			r.With(deps.authMiddleware.RequireRole(models.RoleSchoolAdmin)).
				Put("/{id}/approve", deps.assignments.Approve)
			r.With(deps.authMiddleware.RequireRole(models.RoleSchoolAdmin)).
				Put("/{id}/reject", deps.assignments.Reject)
			r.Get("/school/{schoolId}/pending", deps.assignments.PendingBySchool)
			r.Get("/owner/{ownerId}", deps.assignments.ByOwner)
		})

		r.Route("/schools", func(r chi.Router) {
			r.With(deps.authMiddleware.RequireRole(models.RoleAdmin)).
				Post("/", deps.refs.CreateSchool)
			r.Get("/{id}", deps.refs.GetSchool)
		})
		r.Route("/vehicles", func(r chi.Router) {
			r.With(deps.authMiddleware.RequireRole(models.RoleVehicleOwner)).
				Post("/", deps.refs.CreateVehicle)
			r.Get("/{id}", deps.refs.GetVehicle)
		})
		r.Route("/drivers", func(r chi.Router) {
			r.With(deps.authMiddleware.RequireRole(models.RoleSchoolAdmin)).
				Post("/", deps.refs.CreateDriver)
			r.Get("/{id}", deps.refs.GetDriver)
		})
		r.Route("/students", func(r chi.Router) {
			r.With(deps.authMiddleware.RequireRole(models.RoleSchoolAdmin)).
				Post("/", deps.refs.CreateStudent)
			r.Get("/{id}", deps.refs.GetStudent)
		})
	})

	return r
}
