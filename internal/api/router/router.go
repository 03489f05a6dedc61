// Package router assembles the HTTP surface: public storefront routes
// scoped by the X-Business-Id header and admin routes scoped by the JWT
// subject.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nextwaveweb/salonbook/internal/http/handlers"
	httpmiddleware "github.com/nextwaveweb/salonbook/internal/http/middleware"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Availability       *handlers.AvailabilityHandler
	Bookings           *handlers.BookingHandler
	Services           *handlers.ServicesHandler
	Chat               *handlers.ChatHandler
	Auth               *handlers.AuthHandler
	AdminSchedule      *handlers.AdminScheduleHandler
	AdminOverrides     *handlers.AdminOverridesHandler
	AdminKnowledge     *handlers.AdminKnowledgeHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints without tenant scope.
	r.Group(func(public chi.Router) {
		public.Get("/healthz", handlers.GetHealth)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Auth != nil {
			public.Post("/auth/login", cfg.Auth.PostLogin)
		}
	})

	// Storefront routes, tenant named by header.
	r.Group(func(tenant chi.Router) {
		tenant.Use(httpmiddleware.RequireBusiness())

		tenant.Get("/availability", cfg.Availability.GetWeek)
		tenant.Post("/book", cfg.Bookings.PostBook)
		tenant.Post("/cancel", cfg.Bookings.PostCancel)
		if cfg.Services != nil {
			tenant.Get("/services", cfg.Services.GetList)
		}
		if cfg.Chat != nil {
			tenant.Post("/ask", cfg.Chat.PostAsk)
		}
	})

	// Admin routes, tenant named by the JWT subject.
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin(cfg.AdminAuthSecret))

			admin.Get("/availability", cfg.Availability.GetWeekDetailed)
			admin.Get("/bookings", cfg.Bookings.GetByDate)

			if cfg.AdminSchedule != nil {
				admin.Get("/schedule", cfg.AdminSchedule.GetTemplate)
				admin.Route("/schedule/days/{day}", func(day chi.Router) {
					day.Put("/", cfg.AdminSchedule.PutDay)
					day.Post("/toggle", cfg.AdminSchedule.PostToggleDay)
					day.Post("/slots", cfg.AdminSchedule.PostSlot)
					day.Delete("/slots/{time}", cfg.AdminSchedule.DeleteSlot)
					day.Patch("/slots/{time}", cfg.AdminSchedule.PatchSlot)
				})
			}

			if cfg.AdminOverrides != nil {
				admin.Get("/overrides", cfg.AdminOverrides.GetAll)
				admin.Route("/overrides/{date}", func(date chi.Router) {
					date.Post("/add", cfg.AdminOverrides.PostAdd)
					date.Post("/remove", cfg.AdminOverrides.PostRemove)
					date.Post("/edit", cfg.AdminOverrides.PostEdit)
					date.Post("/revert", cfg.AdminOverrides.PostRevert)
					date.Post("/toggle", cfg.AdminOverrides.PostToggle)
					date.Delete("/", cfg.AdminOverrides.Delete)
				})
			}

			if cfg.Services != nil {
				admin.Put("/services", cfg.Services.PutService)
				admin.Delete("/services/{name}", cfg.Services.DeleteService)
			}
			if cfg.AdminKnowledge != nil {
				admin.Get("/knowledge", cfg.AdminKnowledge.GetKnowledge)
				admin.Put("/knowledge", cfg.AdminKnowledge.PutKnowledge)
			}
		})
	}

	return r
}
