package router

import (
	"net/http"

	"kv-studio/internal/handler"
	"kv-studio/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups every HTTP handler the router mounts. Files is nil
// unless the local storage provider is in use.
type Handlers struct {
	Styles        *handler.StyleHandler
	Backgrounds   *handler.StyleHandler
	Products      *handler.ProductHandler
	WhiteProducts *handler.WhiteProductHandler
	Generation    *handler.GenerationHandler
	Caption       *handler.CaptionHandler
	History       *handler.HistoryHandler
	Files         *handler.FileHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if h.Files != nil {
		r.Get("/files/{bucket}/{name}", h.Files.Serve)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/styles", styleRoutes(h.Styles))
		r.Route("/backgrounds", styleRoutes(h.Backgrounds))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Post("/", h.Products.Create)
			r.Get("/{id}", h.Products.GetByID)
			r.Put("/{id}", h.Products.Update)
			r.Delete("/{id}", h.Products.Delete)
		})

		r.Route("/white-products", func(r chi.Router) {
			r.Get("/", h.WhiteProducts.List)
			r.Post("/", h.WhiteProducts.Create)
			r.Delete("/{id}", h.WhiteProducts.Delete)
		})

		r.Post("/generate_flux_lora", h.Generation.Generate)
		r.Post("/generate", h.Generation.Generate)
		r.Post("/kv/generate", h.Generation.Compose)
		r.Post("/vlm/generate_prompt", h.Caption.GeneratePrompt)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.History.List)
			r.Post("/", h.History.Create)
			r.Get("/overview", h.History.Overview)
			r.Post("/{id}/favorite", h.History.ToggleFavorite)
			r.Post("/{id}/download", h.History.Download)
			r.Delete("/{id}", h.History.Delete)
		})
	})

	return r
}

func styleRoutes(h *handler.StyleHandler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}/prompt", h.UpdatePrompt)
		r.Post("/{id}/magic-prompt", h.MagicPrompt)
		r.Delete("/{id}", h.Delete)
	}
}
