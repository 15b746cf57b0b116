package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medremind/internal/models"
	"medremind/internal/services"
	"medremind/internal/timeutil"
)

// CreateReminderRequest represents the request body for a standalone reminder
type CreateReminderRequest struct {
	Kind          models.ReminderKind `json:"kind"`
	Title         string              `json:"title"`
	Description   *string             `json:"description,omitempty"`
	ScheduledTime string              `json:"scheduled_time"` // RFC 3339
	RelatedID     *string             `json:"related_id,omitempty"`
}

// ReminderActionResponse carries the updated reminder plus a confirmation
// line the dashboard can show as-is.
type ReminderActionResponse struct {
	Reminder     *models.Reminder `json:"reminder"`
	Confirmation string           `json:"confirmation"`
}

// HandleGetReminders returns all reminders
func HandleGetReminders(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tracker.Reminders())
	}
}

// HandleGetDueReminders returns pending reminders whose time has passed
func HandleGetDueReminders(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tracker.DueReminders())
	}
}

// HandleGetReminder returns a single reminder
func HandleGetReminder(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reminder, err := tracker.GetReminder(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reminder)
	}
}

// HandleCreateReminder creates a standalone reminder
func HandleCreateReminder(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		if req.Kind != models.KindMedication && req.Kind != models.KindAppointment {
			http.Error(w, "invalid reminder kind", http.StatusBadRequest)
			return
		}
		scheduled, err := time.Parse(time.RFC3339, req.ScheduledTime)
		if err != nil {
			http.Error(w, "Invalid scheduled_time format, use RFC 3339", http.StatusBadRequest)
			return
		}

		reminder := &models.Reminder{
			Kind:          req.Kind,
			Title:         req.Title,
			Description:   req.Description,
			ScheduledTime: scheduled,
			RelatedID:     req.RelatedID,
		}
		if err := tracker.AddReminder(reminder); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, reminder)
	}
}

// HandleUpdateReminder replaces the full reminder record
func HandleUpdateReminder(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reminder models.Reminder
		if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		reminder.ID = chi.URLParam(r, "id")

		if !reminder.Status.Valid() {
			http.Error(w, "invalid reminder status", http.StatusBadRequest)
			return
		}

		if err := tracker.UpdateReminder(&reminder); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &reminder)
	}
}

// HandleDeleteReminder deletes a single reminder, no cascade
func HandleDeleteReminder(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := tracker.DeleteReminder(chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleTakeReminder marks a pending reminder as taken
func HandleTakeReminder(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reminder, err := tracker.TakeReminder(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ReminderActionResponse{
			Reminder:     reminder,
			Confirmation: fmt.Sprintf("%s marked as taken", reminder.Title),
		})
	}
}

// HandleSnoozeReminder snoozes a pending reminder by 15 minutes
func HandleSnoozeReminder(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reminder, err := tracker.SnoozeReminder(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ReminderActionResponse{
			Reminder: reminder,
			Confirmation: fmt.Sprintf("Snoozed until %s (%s)",
				timeutil.FormatClock(*reminder.SnoozedUntil),
				timeutil.TimeUntil(*reminder.SnoozedUntil)),
		})
	}
}

// HandleSkipReminder marks a pending reminder as skipped
func HandleSkipReminder(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reminder, err := tracker.SkipReminder(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ReminderActionResponse{
			Reminder:     reminder,
			Confirmation: fmt.Sprintf("%s skipped", reminder.Title),
		})
	}
}
