package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/dayledger/internal/http/catalog"
	"github.com/MrJamesThe3rd/dayledger/internal/http/operation"
	"github.com/MrJamesThe3rd/dayledger/internal/logger"
)

func New(
	allowedOrigins []string,
	productsV1 *catalog.Handler,
	operationsV1 *operation.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", operation.ActorHeader},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", productsV1.Routes)

		r.Route("/operations", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			operationsV1.Routes(r)
		})
	})

	return router
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if raw := r.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		logger.Log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", path).
			Str("ip", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("latency", time.Since(start)).
			Msg("request processed")
	})
}
