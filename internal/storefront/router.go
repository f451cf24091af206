package storefront

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/storefront/middlewares"
)

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestID)
	r.Use(middlewares.Logger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", handler.Home)
	r.Get("/cart", handler.Cart)
	r.Post("/cart/items", handler.AddItem)
	r.Post("/cart/items/{id}/quantity", handler.UpdateQuantity)
	r.Post("/cart/items/{id}/delete", handler.RemoveItem)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", handler.ListProducts)
		r.Get("/cart", handler.GetCart)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}
