package telegram

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Handler struct {
	dispatcher Dispatcher
	secret     string
}

func NewHandler(d Dispatcher, secret string) *Handler {
	return &Handler{dispatcher: d, secret: secret}
}

// HandleWebhook receives one update pushed by Telegram.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if subtle.ConstantTimeCompare([]byte(chi.URLParam(r, "secret")), []byte(h.secret)) != 1 {
		http.NotFound(w, r)
		return
	}

	var u tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), u); err != nil {
		log.Printf("[telegram] webhook update=%d: %v", u.UpdateID, err)
	}

	// Telegram redelivers anything that is not 2xx, so failures are only logged
	w.WriteHeader(http.StatusOK)
}
