package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medremind/internal/models"
	"medremind/internal/services"
)

// CreateAppointmentRequest represents the request body for creating an appointment
type CreateAppointmentRequest struct {
	Title     string   `json:"title"`
	Doctor    *string  `json:"doctor,omitempty"`
	Location  string   `json:"location"`
	DateTime  string   `json:"date_time"` // RFC 3339
	Notes     *string  `json:"notes,omitempty"`
	Checklist []string `json:"checklist,omitempty"`
}

// HandleGetAppointments returns all appointments
func HandleGetAppointments(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tracker.Appointments())
	}
}

// HandleGetAppointment returns a single appointment
func HandleGetAppointment(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointment, err := tracker.GetAppointment(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointment)
	}
}

// HandleCreateAppointment creates an appointment and its derived reminder
func HandleCreateAppointment(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		dateTime, err := time.Parse(time.RFC3339, req.DateTime)
		if err != nil {
			http.Error(w, "Invalid date_time format, use RFC 3339", http.StatusBadRequest)
			return
		}

		appointment, err := tracker.AddAppointment(services.AppointmentFields{
			Title:     req.Title,
			Doctor:    req.Doctor,
			Location:  req.Location,
			DateTime:  dateTime,
			Notes:     req.Notes,
			Checklist: req.Checklist,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appointment)
	}
}

// HandleUpdateAppointment replaces the full appointment record
func HandleUpdateAppointment(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var appointment models.Appointment
		if err := json.NewDecoder(r.Body).Decode(&appointment); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		appointment.ID = chi.URLParam(r, "id")

		if !appointment.Status.Valid() {
			http.Error(w, "invalid appointment status", http.StatusBadRequest)
			return
		}

		if err := tracker.UpdateAppointment(&appointment); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &appointment)
	}
}

// HandleDeleteAppointment deletes an appointment and cascades to its reminders
func HandleDeleteAppointment(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := tracker.DeleteAppointment(chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleCompleteAppointment marks an upcoming appointment completed
func HandleCompleteAppointment(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointment, err := tracker.CompleteAppointment(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointment)
	}
}

// HandleMissAppointment marks an upcoming appointment missed
func HandleMissAppointment(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointment, err := tracker.MissAppointment(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointment)
	}
}

// HandleToggleChecklistItem flips one checklist item's completed flag
func HandleToggleChecklistItem(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointment, err := tracker.ToggleChecklistItem(chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointment)
	}
}
