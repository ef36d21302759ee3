package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/daily-diet-be/internal/api/handlers"
	"github.com/isdelr/daily-diet-be/internal/auth"
	"github.com/isdelr/daily-diet-be/internal/logger"
	"github.com/isdelr/daily-diet-be/internal/metrics"
	"github.com/isdelr/daily-diet-be/internal/services"
)

// Deps bundles what the router needs.
type Deps struct {
	Users          services.UserServiceProvider
	Meals          services.MealServiceProvider
	Sessions       *auth.Sessions
	Metrics        *metrics.Metrics
	DB             handlers.Pinger
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(deps.Metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(deps.Users, deps.Sessions)
	mealHandler := handlers.NewMealHandler(deps.Meals)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Get("/healthz", healthHandler.Check)
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/user", func(r chi.Router) {
		r.Get("/", userHandler.GetAll)
		r.Post("/create", userHandler.Create)
		r.Post("/sign-in", userHandler.SignIn)
		r.Get("/sign-out", userHandler.SignOut)
		r.Put("/update/{id}", userHandler.Update)
		r.Patch("/change-password/{id}", userHandler.ChangePassword)
		r.Get("/{id}", userHandler.Get)
	})

	r.Route("/meal", func(r chi.Router) {
		r.Use(deps.Sessions.RequireSession)

		r.Get("/", mealHandler.GetAll)
		r.Get("/summary", mealHandler.Summary)
		r.Post("/create", mealHandler.Create)
		r.Put("/update/{id}", mealHandler.Update)
		r.Delete("/delete/{id}", mealHandler.Delete)
		r.Get("/{id}", mealHandler.Get)
	})

	return r
}
