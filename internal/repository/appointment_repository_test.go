package repository

import (
	"testing"
	"time"

	"medremind/internal/models"
)

func sampleAppointment(id string, at time.Time) *models.Appointment {
	doctor := "Dr. Patel"
	return &models.Appointment{
		ID:       id,
		Title:    "Annual Physical",
		Doctor:   &doctor,
		Location: "Downtown Medical Center",
		DateTime: at,
		Checklist: []models.ChecklistItem{
			{ID: "item-1", Text: "Bring insurance card"},
			{ID: "item-2", Text: "Arrive 15 minutes early", Completed: true},
		},
		Status:    models.AppointmentUpcoming,
		CreatedAt: at.Add(-72 * time.Hour),
	}
}

func TestAppointmentRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository(db)

	at := time.Now().AddDate(0, 0, 3)
	appointment := sampleAppointment("appt-1", at)

	if err := repo.Upsert(appointment); err != nil {
		t.Fatalf("Failed to upsert appointment: %v", err)
	}

	appointments, err := repo.List()
	if err != nil {
		t.Fatalf("Failed to list appointments: %v", err)
	}
	if len(appointments) != 1 {
		t.Fatalf("Expected 1 appointment, got %d", len(appointments))
	}

	got := appointments[0]
	if got.Title != appointment.Title || got.Location != appointment.Location {
		t.Errorf("Unexpected appointment fields: %+v", got)
	}
	if got.Doctor == nil || *got.Doctor != "Dr. Patel" {
		t.Errorf("Expected doctor Dr. Patel, got %v", got.Doctor)
	}
	if got.Notes != nil {
		t.Errorf("Expected absent notes, got %v", *got.Notes)
	}
	if !got.DateTime.Equal(appointment.DateTime) {
		t.Errorf("Expected date_time %v, got %v", appointment.DateTime, got.DateTime)
	}
	if got.Status != models.AppointmentUpcoming {
		t.Errorf("Expected status upcoming, got %s", got.Status)
	}
	if len(got.Checklist) != 2 {
		t.Fatalf("Expected 2 checklist items, got %d", len(got.Checklist))
	}
	if got.Checklist[0].ID != "item-1" || got.Checklist[0].Completed {
		t.Errorf("Unexpected first checklist item: %+v", got.Checklist[0])
	}
	if got.Checklist[1].ID != "item-2" || !got.Checklist[1].Completed {
		t.Errorf("Unexpected second checklist item: %+v", got.Checklist[1])
	}
}

func TestAppointmentRepository_InsertDuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository(db)

	appointment := sampleAppointment("appt-1", time.Now())
	if err := repo.Insert(appointment); err != nil {
		t.Fatalf("Failed to insert appointment: %v", err)
	}
	if err := repo.Insert(appointment); err != ErrDuplicateKey {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestAppointmentRepository_ListBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository(db)

	base := time.Now()
	if err := repo.Insert(sampleAppointment("appt-1", base.AddDate(0, 0, 1))); err != nil {
		t.Fatalf("Failed to insert appointment: %v", err)
	}
	if err := repo.Insert(sampleAppointment("appt-2", base.AddDate(0, 0, 10))); err != nil {
		t.Fatalf("Failed to insert appointment: %v", err)
	}

	appointments, err := repo.ListBetween(base, base.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("Failed to list appointments by range: %v", err)
	}
	if len(appointments) != 1 {
		t.Fatalf("Expected 1 appointment in range, got %d", len(appointments))
	}
	if appointments[0].ID != "appt-1" {
		t.Errorf("Expected appt-1, got %s", appointments[0].ID)
	}
}

func TestAppointmentRepository_ListByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository(db)

	upcoming := sampleAppointment("appt-1", time.Now().AddDate(0, 0, 1))
	completed := sampleAppointment("appt-2", time.Now().AddDate(0, 0, 2))
	completed.Status = models.AppointmentCompleted

	if err := repo.Insert(upcoming); err != nil {
		t.Fatalf("Failed to insert appointment: %v", err)
	}
	if err := repo.Insert(completed); err != nil {
		t.Fatalf("Failed to insert appointment: %v", err)
	}

	appointments, err := repo.ListByStatus(models.AppointmentCompleted)
	if err != nil {
		t.Fatalf("Failed to list appointments by status: %v", err)
	}
	if len(appointments) != 1 || appointments[0].ID != "appt-2" {
		t.Errorf("Expected only appt-2 completed, got %+v", appointments)
	}
}

func TestAppointmentRepository_DeleteIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository(db)

	if err := repo.Insert(sampleAppointment("appt-1", time.Now())); err != nil {
		t.Fatalf("Failed to insert appointment: %v", err)
	}

	if err := repo.Delete("appt-1"); err != nil {
		t.Fatalf("Failed to delete appointment: %v", err)
	}
	if err := repo.Delete("appt-1"); err != nil {
		t.Errorf("Expected no error deleting absent record, got %v", err)
	}

	if _, err := repo.GetByID("appt-1"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
