package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"medremind/internal/database"
	"medremind/internal/models"
)

type AppointmentRepository struct {
	db *database.DB
}

func NewAppointmentRepository(db *database.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Insert creates a new appointment. Fails with ErrDuplicateKey if the
// identifier is already present.
func (r *AppointmentRepository) Insert(appointment *models.Appointment) error {
	checklist, err := json.Marshal(appointment.Checklist)
	if err != nil {
		return fmt.Errorf("failed to encode appointment checklist: %w", err)
	}

	query := `
		INSERT INTO appointments (id, title, doctor, location, date_time, notes, checklist, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		appointment.ID,
		appointment.Title,
		nullString(appointment.Doctor),
		appointment.Location,
		appointment.DateTime,
		nullString(appointment.Notes),
		string(checklist),
		string(appointment.Status),
		appointment.CreatedAt,
	)
	if err != nil {
		if mapped := mapWriteError(err); mapped == ErrDuplicateKey {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	return nil
}

// Upsert inserts the appointment or replaces the existing record with the
// same identifier.
func (r *AppointmentRepository) Upsert(appointment *models.Appointment) error {
	checklist, err := json.Marshal(appointment.Checklist)
	if err != nil {
		return fmt.Errorf("failed to encode appointment checklist: %w", err)
	}

	query := `
		INSERT INTO appointments (id, title, doctor, location, date_time, notes, checklist, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			doctor = excluded.doctor,
			location = excluded.location,
			date_time = excluded.date_time,
			notes = excluded.notes,
			checklist = excluded.checklist,
			status = excluded.status,
			created_at = excluded.created_at
	`
	_, err = r.db.Exec(query,
		appointment.ID,
		appointment.Title,
		nullString(appointment.Doctor),
		appointment.Location,
		appointment.DateTime,
		nullString(appointment.Notes),
		string(checklist),
		string(appointment.Status),
		appointment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert appointment: %w", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (r *AppointmentRepository) GetByID(id string) (*models.Appointment, error) {
	query := `
		SELECT id, title, doctor, location, date_time, notes, checklist, status, created_at
		FROM appointments
		WHERE id = ?
	`
	appointment, err := scanAppointment(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return appointment, nil
}

// Delete removes an appointment by ID. Deleting an absent record succeeds.
func (r *AppointmentRepository) Delete(id string) error {
	query := `DELETE FROM appointments WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

// List retrieves all appointments
func (r *AppointmentRepository) List() ([]*models.Appointment, error) {
	query := `
		SELECT id, title, doctor, location, date_time, notes, checklist, status, created_at
		FROM appointments
		ORDER BY date_time, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ListBetween retrieves appointments whose date-time falls within the
// given range, using the date_time index.
func (r *AppointmentRepository) ListBetween(start, end time.Time) ([]*models.Appointment, error) {
	query := `
		SELECT id, title, doctor, location, date_time, notes, checklist, status, created_at
		FROM appointments
		WHERE date_time BETWEEN ? AND ?
		ORDER BY date_time, id
	`
	rows, err := r.db.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments by date range: %w", err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ListByStatus retrieves appointments with the given lifecycle status.
func (r *AppointmentRepository) ListByStatus(status models.AppointmentStatus) ([]*models.Appointment, error) {
	query := `
		SELECT id, title, doctor, location, date_time, notes, checklist, status, created_at
		FROM appointments
		WHERE status = ?
		ORDER BY date_time, id
	`
	rows, err := r.db.Query(query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments by status: %w", err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

func (r *AppointmentRepository) scanAppointments(rows *sql.Rows) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	return appointments, rows.Err()
}

func scanAppointment(s scanner) (*models.Appointment, error) {
	var appointment models.Appointment
	var doctor, notes sql.NullString
	var checklist, status string

	err := s.Scan(
		&appointment.ID,
		&appointment.Title,
		&doctor,
		&appointment.Location,
		&appointment.DateTime,
		&notes,
		&checklist,
		&status,
		&appointment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(checklist), &appointment.Checklist); err != nil {
		return nil, fmt.Errorf("failed to decode appointment checklist: %w", err)
	}
	appointment.Doctor = stringPtr(doctor)
	appointment.Notes = stringPtr(notes)
	appointment.Status = models.AppointmentStatus(status)

	return &appointment, nil
}
