package handlers

import (
	"encoding/json"
	"net/http"

	"medremind/internal/services"
)

// NotifyRequest represents the request body for an immediate notification
type NotifyRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HandleRequestNotificationPermission resolves the one-shot permission
// request and reports the resulting state.
func HandleRequestNotificationPermission(notifier *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		granted := notifier.RequestPermission()
		writeJSON(w, http.StatusOK, map[string]bool{"granted": granted})
	}
}

// HandleNotify dispatches an immediate notification. Valid only once
// permission has been granted.
func HandleNotify(notifier *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NotifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		if err := notifier.Notify(req.Title, req.Body); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
