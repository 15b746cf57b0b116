package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"

	"medremind/internal/models"
	"medremind/internal/services"
	"medremind/internal/timeutil"
)

// HandleExportPDF generates a PDF adherence report for the current week
func HandleExportPDF(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := tracker.WeeklyStats()
		reminders := weekReminders(tracker, stats)

		pdfBytes, err := generateWeeklyPDF(stats, reminders)
		if err != nil {
			writeError(w, fmt.Errorf("failed to generate PDF: %w", err))
			return
		}

		filename := fmt.Sprintf("weekly-report-%s.pdf", timeutil.FormatDate(stats.WeekStart))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
		w.Write(pdfBytes)
	}
}

// HandleExportCSV generates a CSV of this week's reminders
func HandleExportCSV(tracker *services.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := tracker.WeeklyStats()
		reminders := weekReminders(tracker, stats)

		filename := fmt.Sprintf("weekly-report-%s.csv", timeutil.FormatDate(stats.WeekStart))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		writer := csv.NewWriter(w)
		writer.Write([]string{"Scheduled", "Kind", "Title", "Status", "Snooze Count"})
		for _, reminder := range reminders {
			writer.Write([]string{
				timeutil.FormatDateTime(reminder.ScheduledTime),
				string(reminder.Kind),
				reminder.Title,
				string(reminder.Status),
				strconv.Itoa(reminder.SnoozeCount),
			})
		}
		writer.Flush()
	}
}

// weekReminders filters the full reminder list down to the stats window.
func weekReminders(tracker *services.TrackerService, stats *models.WeeklyStats) []*models.Reminder {
	var filtered []*models.Reminder
	for _, reminder := range tracker.Reminders() {
		if reminder.ScheduledTime.Before(stats.WeekStart) || reminder.ScheduledTime.After(stats.WeekEnd) {
			continue
		}
		filtered = append(filtered, reminder)
	}
	return filtered
}

func generateWeeklyPDF(stats *models.WeeklyStats, reminders []*models.Reminder) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Weekly Health Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Week of %s to %s",
		stats.WeekStart.Format("January 2, 2006"),
		stats.WeekEnd.Format("January 2, 2006")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Medications")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Taken: %d    Missed: %d    Snoozed: %d    Adherence: %.0f%%",
		stats.MedicationsTaken, stats.MedicationsMissed, stats.MedicationsSnoozed, stats.AdherenceRate()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Appointments")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Attended: %d    Missed: %d", stats.AppointmentsAttended, stats.AppointmentsMissed))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Reminder Log (%d total)", stats.TotalReminders))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(35, 6, "Scheduled", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 6, "Kind", "1", 0, "", false, 0, "")
	pdf.CellFormat(80, 6, "Title", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 6, "Status", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, reminder := range reminders {
		pdf.CellFormat(35, 6, timeutil.FormatDateTime(reminder.ScheduledTime), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 6, string(reminder.Kind), "1", 0, "", false, 0, "")
		pdf.CellFormat(80, 6, truncateString(reminder.Title, 45), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 6, string(reminder.Status), "1", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
