/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. httplog:    Structured request logging over slog
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/users/*        User management and per-user payroll
  /api/attendance/*   Day recording and preview
  /api/payroll/*      Organisation-wide reporting

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if logger != nil {
		r.Use(httplog.RequestLogger(logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.SaveUser)
			r.Get("/{id}", h.GetUser)
			r.Get("/{id}/records", h.GetUserRecords)
			r.Get("/{id}/summary", h.GetUserSummary)
			r.Post("/{id}/expenses", h.AddExpense)
		})

		// Attendance routes
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/", h.RecordDay)
			r.Post("/preview", h.PreviewDay)
			r.Get("/{userId}/{date}", h.GetRecord)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Get("/report", h.MonthReport)
		})
	})

	return r
}
