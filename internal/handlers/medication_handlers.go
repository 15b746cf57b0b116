package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medremind/internal/models"
	"medremind/internal/services"
)

// CreateMedicationRequest represents the request body for creating a medication
type CreateMedicationRequest struct {
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency string   `json:"frequency"`
	Times     []string `json:"times"` // HH:MM format
	Notes     *string  `json:"notes,omitempty"`
}

// HandleGetMedications returns all medications
func HandleGetMedications(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tracker.Medications())
	}
}

// HandleGetMedication returns a single medication
func HandleGetMedication(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medication, err := tracker.GetMedication(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, medication)
	}
}

// HandleCreateMedication creates a medication and its derived reminders
func HandleCreateMedication(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if req.Dosage == "" {
			http.Error(w, "dosage is required", http.StatusBadRequest)
			return
		}

		medication, err := tracker.AddMedication(services.MedicationFields{
			Name:      req.Name,
			Dosage:    req.Dosage,
			Frequency: req.Frequency,
			Times:     req.Times,
			Notes:     req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, medication)
	}
}

// HandleUpdateMedication replaces the full medication record
func HandleUpdateMedication(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var medication models.Medication
		if err := json.NewDecoder(r.Body).Decode(&medication); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		medication.ID = chi.URLParam(r, "id")

		if err := tracker.UpdateMedication(&medication); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &medication)
	}
}

// HandleDeleteMedication deletes a medication and cascades to its reminders
func HandleDeleteMedication(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := tracker.DeleteMedication(chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
