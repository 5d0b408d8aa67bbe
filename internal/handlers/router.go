package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/auth"
	"github.com/ukydev/car-logbook/internal/controller"
	"github.com/ukydev/car-logbook/internal/metrics"
	"github.com/ukydev/car-logbook/internal/middleware"
)

// RouterOptions wires the HTTP API. A non-positive RateLimit disables rate
// limiting; a nil Metrics disables /metrics.
type RouterOptions struct {
	Controller *controller.Controller
	Auth       *auth.Service
	Metrics    *metrics.Metrics
	Logger     *log.Logger
	RateLimit  float64
	RateBurst  int
}

// NewRouter builds the chi router for the logbook API.
type healthResponse struct {
	Status      string `json:"status"`
	AIAvailable bool   `json:"aiAvailable"`
}

func NewRouter(opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	authHandler := NewAuthHandler(opts.Controller, opts.Auth, logger)
	logbook := NewLogbookHandler(opts.Controller, logger)
	app := NewAppHandler(opts.Controller, logger)
	authMiddleware := middleware.NewAuthMiddleware(opts.Auth, opts.Controller, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger, opts.Metrics))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, healthResponse{
			Status:      "ok",
			AIAvailable: opts.Controller.AIAvailable(),
		})
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst).Limit)
		r.Use(authMiddleware.Authenticate)

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/confirm", authHandler.Confirm)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/external", authHandler.External)
		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/profile", authHandler.GetProfile)
		r.Put("/profile", authHandler.UpdateProfile)
		r.Post("/profile/password", authHandler.ChangePassword)

		r.Get("/car", logbook.GetCar)
		r.Put("/car", logbook.UpdateCar)
		r.Get("/categories", logbook.Categories)
		r.Get("/services", logbook.ListServices)
		r.Post("/services", logbook.AddService)
		r.Put("/services/{id}", logbook.UpdateService)
		r.Delete("/services/{id}", logbook.DeleteService)
		r.Get("/dashboard", logbook.Dashboard)

		r.Get("/plans", app.Plans)
		r.Post("/subscription/upgrade", app.Upgrade)
		r.Post("/subscription/cancel", app.Cancel)
		r.Get("/preferences", app.GetPreferences)
		r.Put("/preferences", app.SetPreferences)

		r.Put("/view", app.SetView)
		r.Post("/modal", app.OpenModal)
		r.Delete("/modal", app.CloseModal)

		r.Post("/ai/advice", app.Advice)
		r.Post("/ai/diagnosis", app.Diagnose)
	})

	return r
}
