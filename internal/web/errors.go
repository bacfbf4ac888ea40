package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bizcards/internal/cards"
	"bizcards/internal/notify"
	"bizcards/internal/views"
	"bizcards/pkg/rest"
	"bizcards/pkg/validation"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[web] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps a view error to a status code. The view has already notified
// the user; the body is for the page script.
func fail(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "fields": verrs})
	case errors.Is(err, views.ErrNotLoggedIn), errors.Is(err, rest.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, views.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, cards.ErrNotFound), errors.Is(err, rest.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cards.ErrClosed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

// confirmation answers a view's confirm prompt from the confirm=true query
// parameter and remembers the question it was asked.
type confirmation struct {
	answer bool
	asked  *notify.Notice
}

func confirmFrom(r *http.Request) *confirmation {
	return &confirmation{answer: r.URL.Query().Get("confirm") == "true"}
}

func (c *confirmation) Confirm(_ context.Context, n notify.Notice) bool {
	c.asked = &n
	return c.answer
}

// needConfirm tells the page to ask the question and resend with confirm=true.
func (c *confirmation) needConfirm(w http.ResponseWriter) {
	writeJSON(w, http.StatusPreconditionRequired, map[string]any{"error": "confirmation required", "confirm": c.asked})
}
