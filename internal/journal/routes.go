package journal

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/journal/{chatID}", h.HandleRecent)
}
