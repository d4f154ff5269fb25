package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router. An empty corsOrigins
// allows every origin.
func NewRouter(handlers *Handlers, authMiddleware *AuthMiddleware, loggingMiddleware *LoggingMiddleware, corsOrigins []string) *chi.Mux {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Global middleware - ORDER MATTERS!
	r.Use(middleware.RequestID)      // Generate request ID first
	r.Use(middleware.RealIP)         // Extract real IP
	r.Use(loggingMiddleware.Handler) // Add logger to context with request ID
	r.Use(middleware.Recoverer)      // Panic recovery
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"}, // Expose request ID
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint (no auth required)
	r.Get("/health", handlers.Health)

	// API v1 routes (with authentication)
	r.Route("/v1", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/devices", handlers.ListDevices)

		r.Route("/devices/{device}", func(r chi.Router) {
			r.Use(DeviceScope)

			r.Get("/", handlers.GetDevice)
			r.Get("/online", handlers.DeviceOnline)
			r.Get("/status", handlers.DeviceStatus)

			// Doors
			r.Get("/doors/{door}", handlers.DoorStatus)
			r.Post("/doors/{door}/{cmd}", handlers.ControlDoor)

			// Persons
			r.Get("/persons", handlers.ListPersons)
			r.Post("/persons", handlers.CreatePerson)
			r.Put("/persons", handlers.UpdatePerson)
			r.Delete("/persons", handlers.DeletePersons)
			r.Get("/persons/count", handlers.CountPersons)

			// Cards
			r.Get("/cards", handlers.ListCards)
			r.Post("/cards/batch", handlers.BatchAddCards)
			r.Delete("/cards", handlers.DeleteCards)

			// Events
			r.Post("/events/search", handlers.SearchEvents)
			r.Post("/events/count", handlers.CountEvents)
			r.Post("/events/subscribe", handlers.SubscribeEvents)
		})
	})

	return r
}
