package handlers

import (
	"net/http"

	"medremind/internal/models"
	"medremind/internal/services"
)

// WeeklyStatsResponse is the weekly summary plus the derived adherence
// percentage.
type WeeklyStatsResponse struct {
	*models.WeeklyStats
	AdherenceRate float64 `json:"adherence_rate"`
}

// HandleGetWeeklyStats returns statistics for the current local week
func HandleGetWeeklyStats(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := tracker.WeeklyStats()
		writeJSON(w, http.StatusOK, WeeklyStatsResponse{
			WeeklyStats:   stats,
			AdherenceRate: stats.AdherenceRate(),
		})
	}
}

// HandleSeedDemoData bulk-inserts the sample dataset
func HandleSeedDemoData(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := tracker.SeedDemoData(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "seeded"})
	}
}
