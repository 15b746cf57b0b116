package models

import (
	"fmt"
	"time"
)

// ReminderKind distinguishes what a reminder was derived from.
type ReminderKind string

const (
	KindMedication  ReminderKind = "medication"
	KindAppointment ReminderKind = "appointment"
)

// ReminderStatus is the lifecycle state of a reminder. pending is the
// only non-terminal state; missed is never set automatically, it is only
// propagated from an appointment marked missed.
type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderTaken   ReminderStatus = "taken"
	ReminderSnoozed ReminderStatus = "snoozed"
	ReminderSkipped ReminderStatus = "skipped"
	ReminderMissed  ReminderStatus = "missed"
)

// Valid reports whether s is a known reminder status.
func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderPending, ReminderTaken, ReminderSnoozed, ReminderSkipped, ReminderMissed:
		return true
	}
	return false
}

// CanTransition reports whether a reminder may move from s to next.
// Only pending has outgoing edges from the user's perspective.
func (s ReminderStatus) CanTransition(next ReminderStatus) bool {
	switch s {
	case ReminderPending:
		switch next {
		case ReminderTaken, ReminderSnoozed, ReminderSkipped, ReminderMissed:
			return true
		}
		return false
	case ReminderTaken, ReminderSnoozed, ReminderSkipped, ReminderMissed:
		return false
	}
	return false
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentUpcoming  AppointmentStatus = "upcoming"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentMissed    AppointmentStatus = "missed"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentUpcoming, AppointmentCompleted, AppointmentMissed:
		return true
	}
	return false
}

// CanTransition reports whether an appointment may move from s to next.
// completed and missed are terminal.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	switch s {
	case AppointmentUpcoming:
		return next == AppointmentCompleted || next == AppointmentMissed
	case AppointmentCompleted, AppointmentMissed:
		return false
	}
	return false
}

// Medication represents a tracked medication
type Medication struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"` // free-text label, e.g. "Once daily"
	Times     []string  `json:"times"`     // HH:MM, ordered
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChecklistItem is a single preparation item on an appointment
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Appointment represents a scheduled appointment
type Appointment struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Doctor    *string           `json:"doctor,omitempty"`
	Location  string            `json:"location"`
	DateTime  time.Time         `json:"date_time"`
	Notes     *string           `json:"notes,omitempty"`
	Checklist []ChecklistItem   `json:"checklist"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// Reminder represents a single scheduled reminder, derived from a
// medication time slot or an appointment. RelatedID is a non-owning
// back-reference used only for cascade deletes.
type Reminder struct {
	ID            string         `json:"id"`
	Kind          ReminderKind   `json:"kind"`
	Title         string         `json:"title"`
	Description   *string        `json:"description,omitempty"`
	ScheduledTime time.Time      `json:"scheduled_time"`
	Status        ReminderStatus `json:"status"`
	SnoozedUntil  *time.Time     `json:"snoozed_until,omitempty"`
	SnoozeCount   int            `json:"snooze_count"`
	RelatedID     *string        `json:"related_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// WasSnoozed reports whether the reminder is currently snoozed or was
// snoozed at some point before resolving. Statistics count these
// alongside the terminal buckets, so a snoozed-then-taken reminder
// contributes to both tallies.
func (r *Reminder) WasSnoozed() bool {
	return r.Status == ReminderSnoozed || r.SnoozeCount > 0
}

// WeeklyStats aggregates reminders scheduled within one local week.
// Derived on demand, never persisted.
type WeeklyStats struct {
	WeekStart            time.Time `json:"week_start"`
	WeekEnd              time.Time `json:"week_end"`
	MedicationsTaken     int       `json:"medications_taken"`
	MedicationsMissed    int       `json:"medications_missed"`
	MedicationsSnoozed   int       `json:"medications_snoozed"`
	AppointmentsAttended int       `json:"appointments_attended"`
	AppointmentsMissed   int       `json:"appointments_missed"`
	TotalReminders       int       `json:"total_reminders"`
}

// AdherenceRate returns the percentage of medication reminders taken out
// of those resolved (taken or missed). Zero when nothing has resolved yet.
func (s *WeeklyStats) AdherenceRate() float64 {
	resolved := s.MedicationsTaken + s.MedicationsMissed
	if resolved == 0 {
		return 0
	}
	return float64(s.MedicationsTaken) * 100.0 / float64(resolved)
}

// FormattedDateTime returns the appointment time in a readable format
func (a *Appointment) FormattedDateTime() string {
	return a.DateTime.Format("Jan 2, 2006 15:04")
}

// ChecklistProgress returns completed/total for display
func (a *Appointment) ChecklistProgress() string {
	done := 0
	for _, item := range a.Checklist {
		if item.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(a.Checklist))
}

// FormattedScheduledTime returns the reminder time in a readable format
func (r *Reminder) FormattedScheduledTime() string {
	return r.ScheduledTime.Format("Jan 2, 2006 15:04")
}
