package services

import (
	"fmt"
	"time"

	"medremind/internal/ident"
	"medremind/internal/models"
)

// SeedDemoData bulk-inserts sample data: two medications (once and twice
// daily, each deriving their reminders), one appointment three days out
// with a four-item checklist, and two historical reminders pre-resolved
// so the weekly statistics have something to show. Afterwards all three
// mirrors are reloaded from the store so memory matches it exactly.
func (s *TrackerService) SeedDemoData() error {
	s.logger.Info().Msg("seeding demo data")

	lisinoprilNotes := "Take with water, before breakfast"
	if _, err := s.AddMedication(MedicationFields{
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "Once daily",
		Times:     []string{"08:00"},
		Notes:     &lisinoprilNotes,
	}); err != nil {
		return fmt.Errorf("failed to seed medication: %w", err)
	}

	if _, err := s.AddMedication(MedicationFields{
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: "Twice daily",
		Times:     []string{"08:00", "20:00"},
	}); err != nil {
		return fmt.Errorf("failed to seed medication: %w", err)
	}

	doctor := "Dr. Patel"
	apptNotes := "Bring previous lab results"
	if _, err := s.AddAppointment(AppointmentFields{
		Title:    "Annual Physical",
		Doctor:   &doctor,
		Location: "Downtown Medical Center",
		DateTime: s.now().AddDate(0, 0, 3),
		Notes:    &apptNotes,
		Checklist: []string{
			"Bring insurance card",
			"List current medications",
			"Fast for 8 hours before blood work",
			"Arrive 15 minutes early",
		},
	}); err != nil {
		return fmt.Errorf("failed to seed appointment: %w", err)
	}

	// Historical reminders so the weekly summary is not empty on first run.
	takenAt := s.now().Add(-24 * time.Hour)
	takenDesc := "10mg - Once daily"
	if err := s.insertReminder(&models.Reminder{
		ID:            ident.New(),
		Kind:          models.KindMedication,
		Title:         "Take Lisinopril",
		Description:   &takenDesc,
		ScheduledTime: takenAt,
		Status:        models.ReminderTaken,
		CreatedAt:     takenAt,
	}); err != nil {
		return fmt.Errorf("failed to seed historical reminder: %w", err)
	}

	snoozedAt := s.now().Add(-4 * time.Hour)
	snoozedUntil := snoozedAt.Add(snoozeDuration)
	snoozedDesc := "500mg - Twice daily"
	if err := s.insertReminder(&models.Reminder{
		ID:            ident.New(),
		Kind:          models.KindMedication,
		Title:         "Take Metformin",
		Description:   &snoozedDesc,
		ScheduledTime: snoozedAt,
		Status:        models.ReminderSnoozed,
		SnoozedUntil:  &snoozedUntil,
		SnoozeCount:   1,
		CreatedAt:     snoozedAt,
	}); err != nil {
		return fmt.Errorf("failed to seed historical reminder: %w", err)
	}

	// Guarantee memory matches the store exactly after the bulk insert.
	return s.Reload()
}
