package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"medremind/internal/database"
	"medremind/internal/models"
)

type MedicationRepository struct {
	db *database.DB
}

func NewMedicationRepository(db *database.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

// Insert creates a new medication. Fails with ErrDuplicateKey if the
// identifier is already present.
func (r *MedicationRepository) Insert(medication *models.Medication) error {
	times, err := json.Marshal(medication.Times)
	if err != nil {
		return fmt.Errorf("failed to encode medication times: %w", err)
	}

	query := `
		INSERT INTO medications (id, name, dosage, frequency, times, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		medication.ID,
		medication.Name,
		medication.Dosage,
		medication.Frequency,
		string(times),
		nullString(medication.Notes),
		medication.CreatedAt,
	)
	if err != nil {
		if mapped := mapWriteError(err); mapped == ErrDuplicateKey {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert medication: %w", err)
	}

	return nil
}

// Upsert inserts the medication or replaces the existing record with the
// same identifier.
func (r *MedicationRepository) Upsert(medication *models.Medication) error {
	times, err := json.Marshal(medication.Times)
	if err != nil {
		return fmt.Errorf("failed to encode medication times: %w", err)
	}

	query := `
		INSERT INTO medications (id, name, dosage, frequency, times, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			dosage = excluded.dosage,
			frequency = excluded.frequency,
			times = excluded.times,
			notes = excluded.notes,
			created_at = excluded.created_at
	`
	_, err = r.db.Exec(query,
		medication.ID,
		medication.Name,
		medication.Dosage,
		medication.Frequency,
		string(times),
		nullString(medication.Notes),
		medication.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert medication: %w", err)
	}

	return nil
}

// GetByID retrieves a medication by ID
func (r *MedicationRepository) GetByID(id string) (*models.Medication, error) {
	query := `
		SELECT id, name, dosage, frequency, times, notes, created_at
		FROM medications
		WHERE id = ?
	`
	medication, err := scanMedication(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}

	return medication, nil
}

// Delete removes a medication by ID. Deleting an absent record succeeds.
func (r *MedicationRepository) Delete(id string) error {
	query := `DELETE FROM medications WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	return nil
}

// List retrieves all medications
func (r *MedicationRepository) List() ([]*models.Medication, error) {
	query := `
		SELECT id, name, dosage, frequency, times, notes, created_at
		FROM medications
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	var medications []*models.Medication
	for rows.Next() {
		medication, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		medications = append(medications, medication)
	}

	return medications, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMedication(s scanner) (*models.Medication, error) {
	var medication models.Medication
	var times string
	var notes sql.NullString

	err := s.Scan(
		&medication.ID,
		&medication.Name,
		&medication.Dosage,
		&medication.Frequency,
		&times,
		&notes,
		&medication.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(times), &medication.Times); err != nil {
		return nil, fmt.Errorf("failed to decode medication times: %w", err)
	}
	medication.Notes = stringPtr(notes)

	return &medication, nil
}

// nullString converts an optional field to its SQL representation
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
