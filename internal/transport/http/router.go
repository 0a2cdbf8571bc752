package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/notifperf-api/internal/application/notification"
	"github.com/notifperf-api/internal/application/performance"
	"github.com/notifperf-api/internal/config"
	"github.com/notifperf-api/internal/transport/http/handler"
	appmiddleware "github.com/notifperf-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTVerifier != nil {
		authMw = appmiddleware.Auth(deps.JWTVerifier)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// GENERATE_RATE_PER_SEC=0 turns the limit off.
	generateLimit := rate.Inf
	if cfg.GenerateRatePerSec > 0 {
		generateLimit = rate.Limit(cfg.GenerateRatePerSec)
	}
	generateRL := appmiddleware.NewRateLimiter(generateLimit, cfg.GenerateBurst)

	notifOpts := []notification.Option{}
	perfOpts := []performance.Option{performance.WithLocation(cfg.Location())}
	if deps.Clock != nil {
		notifOpts = append(notifOpts, notification.WithClock(deps.Clock))
		perfOpts = append(perfOpts, performance.WithClock(deps.Clock))
	}
	if deps.Publisher != nil {
		perfOpts = append(perfOpts, performance.WithPublisher(deps.Publisher))
	}

	notifSvc := notification.NewService(deps.NotificationRepo, notifOpts...)
	perfSvc := performance.NewService(deps.NotificationRepo, deps.PerformanceRepo, perfOpts...)

	healthH := handler.NewHealthHandler(deps.Store)
	notifH := handler.NewNotificationHandler(notifSvc)
	perfH := handler.NewPerformanceHandler(perfSvc)

	r.Get("/health", healthH.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMw)

		r.Get("/notifications", notifH.List)
		r.Post("/notifications", notifH.Create)
		r.Get("/notifications/{id}", notifH.Get)
		r.Put("/notifications/{id}", notifH.Update)
		r.Delete("/notifications/{id}", notifH.Delete)
		r.Get("/notifications/{id}/performance", perfH.ListForNotification)

		r.Get("/performance", perfH.List)
		r.Get("/performance/summary", perfH.Summary)
		r.With(generateRL.Limit).Post("/performance/generate", perfH.Generate)
	})

	return r
}
