package repository

import (
	"database/sql"
	"fmt"
	"time"

	"medremind/internal/database"
	"medremind/internal/models"
)

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Insert creates a new reminder. Fails with ErrDuplicateKey if the
// identifier is already present.
func (r *ReminderRepository) Insert(reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (id, kind, title, description, scheduled_time, status, snoozed_until, snooze_count, related_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		reminder.ID,
		string(reminder.Kind),
		reminder.Title,
		nullString(reminder.Description),
		reminder.ScheduledTime,
		string(reminder.Status),
		nullTime(reminder.SnoozedUntil),
		reminder.SnoozeCount,
		nullString(reminder.RelatedID),
		reminder.CreatedAt,
	)
	if err != nil {
		if mapped := mapWriteError(err); mapped == ErrDuplicateKey {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert reminder: %w", err)
	}

	return nil
}

// Upsert inserts the reminder or replaces the existing record with the
// same identifier.
func (r *ReminderRepository) Upsert(reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (id, kind, title, description, scheduled_time, status, snoozed_until, snooze_count, related_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			description = excluded.description,
			scheduled_time = excluded.scheduled_time,
			status = excluded.status,
			snoozed_until = excluded.snoozed_until,
			snooze_count = excluded.snooze_count,
			related_id = excluded.related_id,
			created_at = excluded.created_at
	`
	_, err := r.db.Exec(query,
		reminder.ID,
		string(reminder.Kind),
		reminder.Title,
		nullString(reminder.Description),
		reminder.ScheduledTime,
		string(reminder.Status),
		nullTime(reminder.SnoozedUntil),
		reminder.SnoozeCount,
		nullString(reminder.RelatedID),
		reminder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reminder: %w", err)
	}

	return nil
}

// GetByID retrieves a reminder by ID
func (r *ReminderRepository) GetByID(id string) (*models.Reminder, error) {
	query := `
		SELECT id, kind, title, description, scheduled_time, status, snoozed_until, snooze_count, related_id, created_at
		FROM reminders
		WHERE id = ?
	`
	reminder, err := scanReminder(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return reminder, nil
}

// Delete removes a reminder by ID. Deleting an absent record succeeds.
func (r *ReminderRepository) Delete(id string) error {
	query := `DELETE FROM reminders WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

// List retrieves all reminders
func (r *ReminderRepository) List() ([]*models.Reminder, error) {
	query := `
		SELECT id, kind, title, description, scheduled_time, status, snoozed_until, snooze_count, related_id, created_at
		FROM reminders
		ORDER BY scheduled_time, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	return r.scanReminders(rows)
}

// ListByRelated retrieves reminders whose back-reference matches the
// given medication or appointment identifier.
func (r *ReminderRepository) ListByRelated(relatedID string) ([]*models.Reminder, error) {
	query := `
		SELECT id, kind, title, description, scheduled_time, status, snoozed_until, snooze_count, related_id, created_at
		FROM reminders
		WHERE related_id = ?
		ORDER BY scheduled_time, id
	`
	rows, err := r.db.Query(query, relatedID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders by back-reference: %w", err)
	}
	defer rows.Close()

	return r.scanReminders(rows)
}

// ListScheduledBetween retrieves reminders scheduled within the given
// range, using the scheduled_time index.
func (r *ReminderRepository) ListScheduledBetween(start, end time.Time) ([]*models.Reminder, error) {
	query := `
		SELECT id, kind, title, description, scheduled_time, status, snoozed_until, snooze_count, related_id, created_at
		FROM reminders
		WHERE scheduled_time BETWEEN ? AND ?
		ORDER BY scheduled_time, id
	`
	rows, err := r.db.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders by date range: %w", err)
	}
	defer rows.Close()

	return r.scanReminders(rows)
}

// ListByStatus retrieves reminders with the given lifecycle status.
func (r *ReminderRepository) ListByStatus(status models.ReminderStatus) ([]*models.Reminder, error) {
	query := `
		SELECT id, kind, title, description, scheduled_time, status, snoozed_until, snooze_count, related_id, created_at
		FROM reminders
		WHERE status = ?
		ORDER BY scheduled_time, id
	`
	rows, err := r.db.Query(query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders by status: %w", err)
	}
	defer rows.Close()

	return r.scanReminders(rows)
}

func (r *ReminderRepository) scanReminders(rows *sql.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

func scanReminder(s scanner) (*models.Reminder, error) {
	var reminder models.Reminder
	var kind, status string
	var description, relatedID sql.NullString
	var snoozedUntil sql.NullTime

	err := s.Scan(
		&reminder.ID,
		&kind,
		&reminder.Title,
		&description,
		&reminder.ScheduledTime,
		&status,
		&snoozedUntil,
		&reminder.SnoozeCount,
		&relatedID,
		&reminder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reminder.Kind = models.ReminderKind(kind)
	reminder.Status = models.ReminderStatus(status)
	reminder.Description = stringPtr(description)
	reminder.RelatedID = stringPtr(relatedID)
	reminder.SnoozedUntil = timePtr(snoozedUntil)

	return &reminder, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
