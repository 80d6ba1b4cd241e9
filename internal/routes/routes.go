package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/conectahn/wifi-portal-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	r.Get("/", handlers.ServiceInfo)
	r.Get("/api/health", handlers.Health)

	// Registration (captive portal form)
	r.Post("/api/register", handlers.Register)

	// Visitor records
	r.Get("/api/users", handlers.ListUsers)
	r.Get("/api/users/contactable", handlers.ListContactable)
	r.Get("/api/users/status/{status}", handlers.ListByStatus)
	r.Get("/api/user/{id}", handlers.GetUser)
	r.Put("/api/user/{id}", handlers.UpdateUser)

	// Outreach
	r.Post("/api/contact/{userId}", handlers.ContactUser)

	// Admin reporting
	r.Get("/api/stats", handlers.Stats)
	r.Get("/api/export/csv", handlers.ExportCSV)
	r.Get("/api/export/contacts", handlers.ExportContacts)

	r.NotFound(handlers.NotFound)
}
