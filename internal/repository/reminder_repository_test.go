package repository

import (
	"testing"
	"time"

	"medremind/internal/models"
)

func sampleReminder(id string, at time.Time) *models.Reminder {
	relatedID := "med-1"
	description := "10mg - Once daily"
	return &models.Reminder{
		ID:            id,
		Kind:          models.KindMedication,
		Title:         "Take Lisinopril",
		Description:   &description,
		ScheduledTime: at,
		Status:        models.ReminderPending,
		RelatedID:     &relatedID,
		CreatedAt:     at.Add(-time.Hour),
	}
}

func TestReminderRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepository(db)

	at := time.Now().Add(2 * time.Hour)
	reminder := sampleReminder("rem-1", at)
	until := at.Add(15 * time.Minute)
	reminder.Status = models.ReminderSnoozed
	reminder.SnoozedUntil = &until
	reminder.SnoozeCount = 2

	if err := repo.Upsert(reminder); err != nil {
		t.Fatalf("Failed to upsert reminder: %v", err)
	}

	reminders, err := repo.List()
	if err != nil {
		t.Fatalf("Failed to list reminders: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(reminders))
	}

	got := reminders[0]
	if got.Kind != models.KindMedication || got.Title != reminder.Title {
		t.Errorf("Unexpected reminder fields: %+v", got)
	}
	if got.Description == nil || *got.Description != *reminder.Description {
		t.Errorf("Expected description %v, got %v", reminder.Description, got.Description)
	}
	if !got.ScheduledTime.Equal(at) {
		t.Errorf("Expected scheduled_time %v, got %v", at, got.ScheduledTime)
	}
	if got.Status != models.ReminderSnoozed {
		t.Errorf("Expected status snoozed, got %s", got.Status)
	}
	if got.SnoozedUntil == nil || !got.SnoozedUntil.Equal(until) {
		t.Errorf("Expected snoozed_until %v, got %v", until, got.SnoozedUntil)
	}
	if got.SnoozeCount != 2 {
		t.Errorf("Expected snooze_count 2, got %d", got.SnoozeCount)
	}
	if got.RelatedID == nil || *got.RelatedID != "med-1" {
		t.Errorf("Expected related_id med-1, got %v", got.RelatedID)
	}
}

func TestReminderRepository_OptionalFieldsAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepository(db)

	reminder := &models.Reminder{
		ID:            "rem-1",
		Kind:          models.KindAppointment,
		Title:         "Annual Physical",
		ScheduledTime: time.Now(),
		Status:        models.ReminderPending,
		CreatedAt:     time.Now(),
	}

	if err := repo.Upsert(reminder); err != nil {
		t.Fatalf("Failed to upsert reminder: %v", err)
	}

	got, err := repo.GetByID("rem-1")
	if err != nil {
		t.Fatalf("Failed to get reminder: %v", err)
	}
	if got.Description != nil {
		t.Errorf("Expected absent description, got %v", *got.Description)
	}
	if got.SnoozedUntil != nil {
		t.Errorf("Expected absent snoozed_until, got %v", *got.SnoozedUntil)
	}
	if got.RelatedID != nil {
		t.Errorf("Expected absent related_id, got %v", *got.RelatedID)
	}
	if got.SnoozeCount != 0 {
		t.Errorf("Expected snooze_count 0, got %d", got.SnoozeCount)
	}
}

func TestReminderRepository_InsertDuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepository(db)

	reminder := sampleReminder("rem-1", time.Now())
	if err := repo.Insert(reminder); err != nil {
		t.Fatalf("Failed to insert reminder: %v", err)
	}
	if err := repo.Insert(reminder); err != ErrDuplicateKey {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestReminderRepository_ListByRelated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepository(db)

	base := time.Now()
	first := sampleReminder("rem-1", base)
	second := sampleReminder("rem-2", base.Add(12*time.Hour))
	other := sampleReminder("rem-3", base.Add(time.Hour))
	otherRelated := "appt-9"
	other.RelatedID = &otherRelated

	for _, r := range []*models.Reminder{first, second, other} {
		if err := repo.Insert(r); err != nil {
			t.Fatalf("Failed to insert reminder: %v", err)
		}
	}

	reminders, err := repo.ListByRelated("med-1")
	if err != nil {
		t.Fatalf("Failed to list reminders by back-reference: %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("Expected 2 reminders, got %d", len(reminders))
	}
	if reminders[0].ID != "rem-1" || reminders[1].ID != "rem-2" {
		t.Errorf("Unexpected reminder order: %s, %s", reminders[0].ID, reminders[1].ID)
	}
}

func TestReminderRepository_ListScheduledBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepository(db)

	base := time.Now()
	if err := repo.Insert(sampleReminder("rem-1", base.Add(time.Hour))); err != nil {
		t.Fatalf("Failed to insert reminder: %v", err)
	}
	if err := repo.Insert(sampleReminder("rem-2", base.Add(48*time.Hour))); err != nil {
		t.Fatalf("Failed to insert reminder: %v", err)
	}

	reminders, err := repo.ListScheduledBetween(base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to list reminders by range: %v", err)
	}
	if len(reminders) != 1 || reminders[0].ID != "rem-1" {
		t.Errorf("Expected only rem-1 in range, got %+v", reminders)
	}
}

func TestReminderRepository_ListByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepository(db)

	pending := sampleReminder("rem-1", time.Now())
	taken := sampleReminder("rem-2", time.Now().Add(time.Hour))
	taken.Status = models.ReminderTaken

	if err := repo.Insert(pending); err != nil {
		t.Fatalf("Failed to insert reminder: %v", err)
	}
	if err := repo.Insert(taken); err != nil {
		t.Fatalf("Failed to insert reminder: %v", err)
	}

	reminders, err := repo.ListByStatus(models.ReminderTaken)
	if err != nil {
		t.Fatalf("Failed to list reminders by status: %v", err)
	}
	if len(reminders) != 1 || reminders[0].ID != "rem-2" {
		t.Errorf("Expected only rem-2 taken, got %+v", reminders)
	}
}

func TestReminderRepository_DeleteIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepository(db)

	if err := repo.Insert(sampleReminder("rem-1", time.Now())); err != nil {
		t.Fatalf("Failed to insert reminder: %v", err)
	}

	if err := repo.Delete("rem-1"); err != nil {
		t.Fatalf("Failed to delete reminder: %v", err)
	}
	if err := repo.Delete("rem-1"); err != nil {
		t.Errorf("Expected no error deleting absent record, got %v", err)
	}
}
