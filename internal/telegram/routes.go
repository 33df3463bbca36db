package telegram

import "github.com/go-chi/chi/v5"

// WebhookPath is the route Telegram is told to push updates to.
const WebhookPath = "/telegram/webhook/"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post(WebhookPath+"{secret}", h.HandleWebhook)
}
