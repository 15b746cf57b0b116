package repository

import (
	"testing"
	"time"

	"medremind/internal/database"
	"medremind/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestMedicationRepository_InsertAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicationRepository(db)

	notes := "Take with food"
	medication := &models.Medication{
		ID:        "med-1",
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "Once daily",
		Times:     []string{"08:00"},
		Notes:     &notes,
		CreatedAt: time.Now(),
	}

	if err := repo.Insert(medication); err != nil {
		t.Fatalf("Failed to insert medication: %v", err)
	}

	medications, err := repo.List()
	if err != nil {
		t.Fatalf("Failed to list medications: %v", err)
	}
	if len(medications) != 1 {
		t.Fatalf("Expected 1 medication, got %d", len(medications))
	}

	got := medications[0]
	if got.Name != "Lisinopril" || got.Dosage != "10mg" || got.Frequency != "Once daily" {
		t.Errorf("Unexpected medication fields: %+v", got)
	}
	if len(got.Times) != 1 || got.Times[0] != "08:00" {
		t.Errorf("Expected times [08:00], got %v", got.Times)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Errorf("Expected notes %q, got %v", notes, got.Notes)
	}
	if !got.CreatedAt.Equal(medication.CreatedAt) {
		t.Errorf("Expected created_at %v, got %v", medication.CreatedAt, got.CreatedAt)
	}
}

func TestMedicationRepository_InsertDuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicationRepository(db)

	medication := &models.Medication{
		ID:        "med-1",
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "Once daily",
		Times:     []string{"08:00"},
		CreatedAt: time.Now(),
	}

	if err := repo.Insert(medication); err != nil {
		t.Fatalf("Failed to insert medication: %v", err)
	}

	if err := repo.Insert(medication); err != ErrDuplicateKey {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestMedicationRepository_UpsertReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicationRepository(db)

	medication := &models.Medication{
		ID:        "med-1",
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "Once daily",
		Times:     []string{"08:00"},
		CreatedAt: time.Now(),
	}

	if err := repo.Upsert(medication); err != nil {
		t.Fatalf("Failed to upsert new medication: %v", err)
	}

	medication.Dosage = "20mg"
	medication.Times = []string{"08:00", "20:00"}
	if err := repo.Upsert(medication); err != nil {
		t.Fatalf("Failed to upsert existing medication: %v", err)
	}

	got, err := repo.GetByID("med-1")
	if err != nil {
		t.Fatalf("Failed to get medication: %v", err)
	}
	if got.Dosage != "20mg" {
		t.Errorf("Expected dosage 20mg, got %s", got.Dosage)
	}
	if len(got.Times) != 2 {
		t.Errorf("Expected 2 times, got %v", got.Times)
	}
}

func TestMedicationRepository_OptionalFieldsAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicationRepository(db)

	medication := &models.Medication{
		ID:        "med-1",
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: "Twice daily",
		Times:     []string{"08:00", "20:00"},
		CreatedAt: time.Now(),
	}

	if err := repo.Upsert(medication); err != nil {
		t.Fatalf("Failed to upsert medication: %v", err)
	}

	got, err := repo.GetByID("med-1")
	if err != nil {
		t.Fatalf("Failed to get medication: %v", err)
	}
	if got.Notes != nil {
		t.Errorf("Expected absent notes, got %v", *got.Notes)
	}
}

func TestMedicationRepository_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicationRepository(db)

	if _, err := repo.GetByID("missing"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMedicationRepository_DeleteIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicationRepository(db)

	medication := &models.Medication{
		ID:        "med-1",
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "Once daily",
		Times:     []string{"08:00"},
		CreatedAt: time.Now(),
	}
	if err := repo.Insert(medication); err != nil {
		t.Fatalf("Failed to insert medication: %v", err)
	}

	if err := repo.Delete("med-1"); err != nil {
		t.Fatalf("Failed to delete medication: %v", err)
	}
	// Deleting an absent record is still a success.
	if err := repo.Delete("med-1"); err != nil {
		t.Errorf("Expected no error deleting absent record, got %v", err)
	}
	if err := repo.Delete("never-existed"); err != nil {
		t.Errorf("Expected no error deleting unknown record, got %v", err)
	}
}
