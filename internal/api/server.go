// Package api exposes the long-weekend finder as a JSON HTTP API.
//
// Routes:
//
//	GET /api/health
//	GET /api/countries
//	GET /api/holidays/{country}/{year}
//	GET /api/opportunities/{country}/{year}?month=N
//	GET /api/statistics/{country}/{year}?month=N
//	GET /api/weather?location=..&date=YYYY-MM-DD
//
// Errors are returned as {"error": "..."} with 400 for invalid input,
// 502 when the holiday or weather upstream fails and 503 when weather
// lookup is not configured.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler, allowedOrigins []string, logger *zap.Logger) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/countries", h.ListCountries)
		r.Get("/holidays/{country}/{year}", h.ListHolidays)
		r.Get("/opportunities/{country}/{year}", h.ListOpportunities)
		r.Get("/statistics/{country}/{year}", h.GetStatistics)
		r.Get("/weather", h.GetWeather)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", nil)
	})

	return r
}

// requestLogger logs every request with zap
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("HTTP request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote", r.RemoteAddr),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
