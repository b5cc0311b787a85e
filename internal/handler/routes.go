package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/msomdec/recipe-box/internal/service"
)

// Dependencies are the services and settings the router needs.
type Dependencies struct {
	Auth           *service.AuthService
	Recipes        *service.RecipeService
	Tags           *service.CatalogService
	Ingredients    *service.CatalogService
	Limiter        *service.RateLimiter
	DB             Pinger
	Logger         *slog.Logger
	AllowedOrigins []string
	CORSMaxAge     int
	// TrustProxy enables middleware.RealIP. Without it the rate limiter
	// keys on the connection's remote address only.
	TrustProxy     bool
}

// NewRouter builds the HTTP handler for the whole API.
func NewRouter(d Dependencies) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	if d.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         d.CORSMaxAge,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", HandleHealthz(d.DB))

	authHandler := NewAuthHandler(d.Auth)
	requireAuth := RequireAuth(d.Auth)

	r.Route("/api/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(d.Limiter))
			r.Post("/create", authHandler.HandleRegister)
			r.Post("/token", authHandler.HandleToken)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.HandleMe)
			r.Put("/me", authHandler.HandleUpdateMe)
			r.Patch("/me", authHandler.HandleUpdateMe)
		})
	})

	r.Route("/api/recipe", func(r chi.Router) {
		r.Use(requireAuth)

		recipes := NewRecipeHandler(d.Recipes)
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.HandleList)
			r.Post("/", recipes.HandleCreate)
			r.Get("/{id}", recipes.HandleGet)
			r.Put("/{id}", recipes.HandleReplace)
			r.Patch("/{id}", recipes.HandleUpdate)
			r.Delete("/{id}", recipes.HandleDelete)
		})

		r.Route("/tags", catalogRoutes(NewCatalogHandler(d.Tags)))
		r.Route("/ingredients", catalogRoutes(NewCatalogHandler(d.Ingredients)))
	})

	return r
}

func catalogRoutes(h *CatalogHandler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	}
}
