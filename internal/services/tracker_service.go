package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"medremind/internal/ident"
	"medremind/internal/models"
	"medremind/internal/repository"
	"medremind/internal/timeutil"
)

// How far ahead of an appointment its reminder fires.
const appointmentLeadTime = 60 * time.Minute

// How long a snooze defers a reminder.
const snoozeDuration = 15 * time.Minute

// ErrInvalidTransition is returned when a status change is not allowed by
// the record's state machine.
var ErrInvalidTransition = fmt.Errorf("invalid status transition")

// MedicationFields carries caller-supplied data for a new medication.
// Presence of name and dosage is the caller's responsibility.
type MedicationFields struct {
	Name      string
	Dosage    string
	Frequency string
	Times     []string // HH:MM, ordered
	Notes     *string
}

// AppointmentFields carries caller-supplied data for a new appointment.
type AppointmentFields struct {
	Title     string
	Doctor    *string
	Location  string
	DateTime  time.Time
	Notes     *string
	Checklist []string // item texts, ordered
}

// TrackerService is the single source of truth for in-memory state. Every
// mutation goes through the repositories first and touches the mirrors
// only after the write succeeds, so a failed write is never reflected in
// memory. Secondary reminders are derived here when a medication or
// appointment is created.
type TrackerService struct {
	mu sync.RWMutex

	medications  map[string]*models.Medication
	appointments map[string]*models.Appointment
	reminders    map[string]*models.Reminder

	medicationRepo  *repository.MedicationRepository
	appointmentRepo *repository.AppointmentRepository
	reminderRepo    *repository.ReminderRepository

	logger zerolog.Logger
	now    func() time.Time
}

// NewTrackerService creates the service and loads the in-memory mirrors
// from the store.
func NewTrackerService(
	medicationRepo *repository.MedicationRepository,
	appointmentRepo *repository.AppointmentRepository,
	reminderRepo *repository.ReminderRepository,
	logger zerolog.Logger,
) (*TrackerService, error) {
	s := &TrackerService{
		medications:     make(map[string]*models.Medication),
		appointments:    make(map[string]*models.Appointment),
		reminders:       make(map[string]*models.Reminder),
		medicationRepo:  medicationRepo,
		appointmentRepo: appointmentRepo,
		reminderRepo:    reminderRepo,
		logger:          logger,
		now:             time.Now,
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads all three collections from the store into the mirrors.
func (s *TrackerService) Reload() error {
	medications, err := s.medicationRepo.List()
	if err != nil {
		return fmt.Errorf("failed to load medications: %w", err)
	}
	appointments, err := s.appointmentRepo.List()
	if err != nil {
		return fmt.Errorf("failed to load appointments: %w", err)
	}
	reminders, err := s.reminderRepo.List()
	if err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.medications = make(map[string]*models.Medication, len(medications))
	for _, m := range medications {
		s.medications[m.ID] = m
	}
	s.appointments = make(map[string]*models.Appointment, len(appointments))
	for _, a := range appointments {
		s.appointments[a.ID] = a
	}
	s.reminders = make(map[string]*models.Reminder, len(reminders))
	for _, r := range reminders {
		s.reminders[r.ID] = r
	}

	return nil
}

// AddMedication persists a new medication, then derives one pending
// reminder per configured time of day: scheduled today if the time has
// not yet passed, else tomorrow. Reminder creation is best-effort and
// sequential; a failed slot is logged and skipped.
func (s *TrackerService) AddMedication(fields MedicationFields) (*models.Medication, error) {
	medication := &models.Medication{
		ID:        ident.New(),
		Name:      fields.Name,
		Dosage:    fields.Dosage,
		Frequency: fields.Frequency,
		Times:     fields.Times,
		Notes:     fields.Notes,
		CreatedAt: s.now(),
	}

	if err := s.medicationRepo.Insert(medication); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.medications[medication.ID] = medication
	s.mu.Unlock()

	description := fmt.Sprintf("%s - %s", medication.Dosage, medication.Frequency)
	for _, clock := range medication.Times {
		at, err := timeutil.NextOccurrence(clock, s.now())
		if err != nil {
			s.logger.Warn().Err(err).Str("medication_id", medication.ID).Msg("skipping reminder for invalid time slot")
			continue
		}

		relatedID := medication.ID
		reminder := &models.Reminder{
			ID:            ident.New(),
			Kind:          models.KindMedication,
			Title:         fmt.Sprintf("Take %s", medication.Name),
			Description:   &description,
			ScheduledTime: at,
			Status:        models.ReminderPending,
			RelatedID:     &relatedID,
			CreatedAt:     s.now(),
		}
		if err := s.insertReminder(reminder); err != nil {
			s.logger.Error().Err(err).Str("medication_id", medication.ID).Msg("failed to create medication reminder")
		}
	}

	return medication, nil
}

// AddAppointment persists a new appointment with status upcoming, then
// derives exactly one reminder 60 minutes before its date-time.
func (s *TrackerService) AddAppointment(fields AppointmentFields) (*models.Appointment, error) {
	checklist := make([]models.ChecklistItem, 0, len(fields.Checklist))
	for _, text := range fields.Checklist {
		checklist = append(checklist, models.ChecklistItem{ID: ident.New(), Text: text})
	}

	appointment := &models.Appointment{
		ID:        ident.New(),
		Title:     fields.Title,
		Doctor:    fields.Doctor,
		Location:  fields.Location,
		DateTime:  fields.DateTime,
		Notes:     fields.Notes,
		Checklist: checklist,
		Status:    models.AppointmentUpcoming,
		CreatedAt: s.now(),
	}

	if err := s.appointmentRepo.Insert(appointment); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.appointments[appointment.ID] = appointment
	s.mu.Unlock()

	relatedID := appointment.ID
	description := fmt.Sprintf("Appointment at %s", appointment.Location)
	reminder := &models.Reminder{
		ID:            ident.New(),
		Kind:          models.KindAppointment,
		Title:         appointment.Title,
		Description:   &description,
		ScheduledTime: appointment.DateTime.Add(-appointmentLeadTime),
		Status:        models.ReminderPending,
		RelatedID:     &relatedID,
		CreatedAt:     s.now(),
	}
	if err := s.insertReminder(reminder); err != nil {
		s.logger.Error().Err(err).Str("appointment_id", appointment.ID).Msg("failed to create appointment reminder")
	}

	return appointment, nil
}

// AddReminder persists a standalone reminder.
func (s *TrackerService) AddReminder(reminder *models.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = ident.New()
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = s.now()
	}
	if reminder.Status == "" {
		reminder.Status = models.ReminderPending
	}
	return s.insertReminder(reminder)
}

func (s *TrackerService) insertReminder(reminder *models.Reminder) error {
	if err := s.reminderRepo.Insert(reminder); err != nil {
		return err
	}
	s.mu.Lock()
	s.reminders[reminder.ID] = reminder
	s.mu.Unlock()
	return nil
}

// UpdateMedication replaces the full record with the same identifier.
func (s *TrackerService) UpdateMedication(medication *models.Medication) error {
	if err := s.medicationRepo.Upsert(medication); err != nil {
		return err
	}
	s.mu.Lock()
	s.medications[medication.ID] = medication
	s.mu.Unlock()
	return nil
}

// UpdateAppointment replaces the full record with the same identifier.
func (s *TrackerService) UpdateAppointment(appointment *models.Appointment) error {
	if err := s.appointmentRepo.Upsert(appointment); err != nil {
		return err
	}
	s.mu.Lock()
	s.appointments[appointment.ID] = appointment
	s.mu.Unlock()
	return nil
}

// UpdateReminder replaces the full record with the same identifier.
func (s *TrackerService) UpdateReminder(reminder *models.Reminder) error {
	if err := s.reminderRepo.Upsert(reminder); err != nil {
		return err
	}
	s.mu.Lock()
	s.reminders[reminder.ID] = reminder
	s.mu.Unlock()
	return nil
}

// DeleteMedication removes the medication and every reminder whose
// back-reference points at it. The cascade is sequential and best-effort:
// a failed reminder deletion is logged but does not undo anything.
func (s *TrackerService) DeleteMedication(id string) error {
	return s.deleteWithCascade(id, func() error { return s.medicationRepo.Delete(id) }, func() {
		delete(s.medications, id)
	})
}

// DeleteAppointment removes the appointment and every reminder whose
// back-reference points at it, with the same best-effort cascade.
func (s *TrackerService) DeleteAppointment(id string) error {
	return s.deleteWithCascade(id, func() error { return s.appointmentRepo.Delete(id) }, func() {
		delete(s.appointments, id)
	})
}

func (s *TrackerService) deleteWithCascade(id string, deletePrimary func() error, forgetPrimary func()) error {
	if err := deletePrimary(); err != nil {
		return err
	}

	s.mu.Lock()
	forgetPrimary()
	var cascade []string
	for _, r := range s.reminders {
		if r.RelatedID != nil && *r.RelatedID == id {
			cascade = append(cascade, r.ID)
		}
	}
	s.mu.Unlock()

	sort.Strings(cascade)
	for _, reminderID := range cascade {
		if err := s.reminderRepo.Delete(reminderID); err != nil {
			s.logger.Error().Err(err).Str("reminder_id", reminderID).Msg("cascade delete failed for reminder")
			continue
		}
		s.mu.Lock()
		delete(s.reminders, reminderID)
		s.mu.Unlock()
	}

	return nil
}

// DeleteReminder removes a single reminder. No cascade; deleting an
// absent identifier succeeds.
func (s *TrackerService) DeleteReminder(id string) error {
	if err := s.reminderRepo.Delete(id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.reminders, id)
	s.mu.Unlock()
	return nil
}

// TakeReminder marks a pending reminder as taken.
func (s *TrackerService) TakeReminder(id string) (*models.Reminder, error) {
	return s.transitionReminder(id, models.ReminderTaken, nil)
}

// SkipReminder marks a pending reminder as skipped.
func (s *TrackerService) SkipReminder(id string) (*models.Reminder, error) {
	return s.transitionReminder(id, models.ReminderSkipped, nil)
}

// SnoozeReminder marks a pending reminder as snoozed, defers it by 15
// minutes and increments the snooze counter. The scheduled time is left
// untouched, so the reminder drops out of the due feed until revisited;
// no replacement reminder is scheduled at the snoozed-until time.
func (s *TrackerService) SnoozeReminder(id string) (*models.Reminder, error) {
	until := s.now().Add(snoozeDuration)
	return s.transitionReminder(id, models.ReminderSnoozed, func(r *models.Reminder) {
		r.SnoozedUntil = &until
		r.SnoozeCount++
	})
}

func (s *TrackerService) transitionReminder(id string, next models.ReminderStatus, mutate func(*models.Reminder)) (*models.Reminder, error) {
	s.mu.RLock()
	current, ok := s.reminders[id]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !current.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: reminder %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	updated := *current
	updated.Status = next
	if mutate != nil {
		mutate(&updated)
	}

	if err := s.UpdateReminder(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CompleteAppointment marks an upcoming appointment as completed.
func (s *TrackerService) CompleteAppointment(id string) (*models.Appointment, error) {
	return s.transitionAppointment(id, models.AppointmentCompleted)
}

// MissAppointment marks an upcoming appointment as missed and reflects
// that on its still-pending reminders.
func (s *TrackerService) MissAppointment(id string) (*models.Appointment, error) {
	appointment, err := s.transitionAppointment(id, models.AppointmentMissed)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	var related []*models.Reminder
	for _, r := range s.reminders {
		if r.RelatedID != nil && *r.RelatedID == id && r.Status == models.ReminderPending {
			related = append(related, r)
		}
	}
	s.mu.RUnlock()

	for _, r := range related {
		updated := *r
		updated.Status = models.ReminderMissed
		if err := s.UpdateReminder(&updated); err != nil {
			s.logger.Error().Err(err).Str("reminder_id", r.ID).Msg("failed to mark appointment reminder missed")
		}
	}

	return appointment, nil
}

func (s *TrackerService) transitionAppointment(id string, next models.AppointmentStatus) (*models.Appointment, error) {
	s.mu.RLock()
	current, ok := s.appointments[id]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !current.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: appointment %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	updated := *current
	updated.Status = next
	if err := s.UpdateAppointment(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ToggleChecklistItem flips the completed flag of one checklist item and
// persists the full appointment record.
func (s *TrackerService) ToggleChecklistItem(appointmentID, itemID string) (*models.Appointment, error) {
	s.mu.RLock()
	current, ok := s.appointments[appointmentID]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}

	updated := *current
	updated.Checklist = make([]models.ChecklistItem, len(current.Checklist))
	copy(updated.Checklist, current.Checklist)

	found := false
	for i := range updated.Checklist {
		if updated.Checklist[i].ID == itemID {
			updated.Checklist[i].Completed = !updated.Checklist[i].Completed
			found = true
			break
		}
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	if err := s.UpdateAppointment(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// WeeklyStats derives adherence statistics from the in-memory reminders
// for the current local week (Sunday through Saturday, always "this
// week"). A reminder that was snoozed before resolving contributes to
// both the snoozed bucket and its terminal bucket; that double count is
// deliberate.
func (s *TrackerService) WeeklyStats() *models.WeeklyStats {
	start, end := timeutil.WeekBounds(s.now())
	stats := &models.WeeklyStats{WeekStart: start, WeekEnd: end}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reminders {
		if r.ScheduledTime.Before(start) || r.ScheduledTime.After(end) {
			continue
		}
		stats.TotalReminders++

		switch r.Kind {
		case models.KindMedication:
			switch r.Status {
			case models.ReminderTaken:
				stats.MedicationsTaken++
			case models.ReminderMissed, models.ReminderSkipped:
				stats.MedicationsMissed++
			}
			if r.WasSnoozed() {
				stats.MedicationsSnoozed++
			}
		case models.KindAppointment:
			switch r.Status {
			case models.ReminderTaken:
				stats.AppointmentsAttended++
			case models.ReminderMissed, models.ReminderSkipped:
				stats.AppointmentsMissed++
			}
		}
	}

	return stats
}

// DueReminders returns pending reminders whose scheduled time has passed,
// oldest first. Due-ness is discovered only by re-filtering against the
// clock; nothing schedules background timers.
func (s *TrackerService) DueReminders() []*models.Reminder {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*models.Reminder
	for _, r := range s.reminders {
		if r.Status == models.ReminderPending && !r.ScheduledTime.After(now) {
			due = append(due, r)
		}
	}
	sortReminders(due)
	return due
}

// GetMedication returns one medication from the mirror.
func (s *TrackerService) GetMedication(id string) (*models.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.medications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

// GetAppointment returns one appointment from the mirror.
func (s *TrackerService) GetAppointment(id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

// GetReminder returns one reminder from the mirror.
func (s *TrackerService) GetReminder(id string) (*models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reminders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

// Medications returns all medications, oldest first.
func (s *TrackerService) Medications() []*models.Medication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	medications := make([]*models.Medication, 0, len(s.medications))
	for _, m := range s.medications {
		medications = append(medications, m)
	}
	sort.Slice(medications, func(i, j int) bool {
		if medications[i].CreatedAt.Equal(medications[j].CreatedAt) {
			return medications[i].ID < medications[j].ID
		}
		return medications[i].CreatedAt.Before(medications[j].CreatedAt)
	})
	return medications
}

// Appointments returns all appointments ordered by date-time.
func (s *TrackerService) Appointments() []*models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appointments := make([]*models.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		appointments = append(appointments, a)
	}
	sort.Slice(appointments, func(i, j int) bool {
		if appointments[i].DateTime.Equal(appointments[j].DateTime) {
			return appointments[i].ID < appointments[j].ID
		}
		return appointments[i].DateTime.Before(appointments[j].DateTime)
	})
	return appointments
}

// Reminders returns all reminders ordered by scheduled time.
func (s *TrackerService) Reminders() []*models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reminders := make([]*models.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		reminders = append(reminders, r)
	}
	sortReminders(reminders)
	return reminders
}

func sortReminders(reminders []*models.Reminder) {
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].ScheduledTime.Equal(reminders[j].ScheduledTime) {
			return reminders[i].ID < reminders[j].ID
		}
		return reminders[i].ScheduledTime.Before(reminders[j].ScheduledTime)
	})
}
