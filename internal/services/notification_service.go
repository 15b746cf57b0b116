package services

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNotificationsDenied is returned by Notify when permission has not
// been granted.
var ErrNotificationsDenied = fmt.Errorf("notification permission not granted")

// NotificationService is the boundary to the host's notification
// facility. It holds the permission state and dispatches immediate
// notifications; it never schedules anything for later. Due reminders are
// discovered by the views re-filtering against the clock, not by timers
// here.
type NotificationService struct {
	mu      sync.Mutex
	granted bool

	allowByDefault bool
	logger         zerolog.Logger
}

// NewNotificationService creates the service. allowByDefault controls
// what a permission request resolves to; once granted, permission sticks.
func NewNotificationService(allowByDefault bool, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		allowByDefault: allowByDefault,
		logger:         logger,
	}
}

// RequestPermission resolves the one-shot permission request and reports
// whether notifications are now allowed.
func (s *NotificationService) RequestPermission() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.granted && s.allowByDefault {
		s.granted = true
		s.logger.Info().Msg("notification permission granted")
	}
	return s.granted
}

// Granted reports the current permission state.
func (s *NotificationService) Granted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.granted
}

// Notify displays an immediate notification. Fire-and-forget: the only
// failure mode is missing permission.
func (s *NotificationService) Notify(title, body string) error {
	s.mu.Lock()
	granted := s.granted
	s.mu.Unlock()

	if !granted {
		return ErrNotificationsDenied
	}

	s.logger.Info().Str("title", title).Str("body", body).Msg("notification dispatched")
	return nil
}
