package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekBounds(t *testing.T) {
	// A Wednesday afternoon.
	wednesday := time.Date(2026, time.August, 26, 15, 30, 0, 0, time.Local)

	start, end := WeekBounds(wednesday)

	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, time.Date(2026, time.August, 23, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Saturday, end.Weekday())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.True(t, end.Sub(start) < 7*24*time.Hour)
}

func TestWeekBoundsOnSunday(t *testing.T) {
	sunday := time.Date(2026, time.August, 23, 0, 0, 0, 0, time.Local)

	start, end := WeekBounds(sunday)

	assert.Equal(t, sunday, start)
	assert.True(t, end.After(sunday))
}

func TestNextOccurrenceToday(t *testing.T) {
	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.Local)

	at, err := NextOccurrence("15:04", now)
	require.NoError(t, err)
	assert.Equal(t, now.Day(), at.Day())
	assert.Equal(t, 15, at.Hour())
	assert.Equal(t, 4, at.Minute())
}

func TestNextOccurrenceRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.Local)

	at, err := NextOccurrence("08:00", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 1).Day(), at.Day())
	assert.Equal(t, 8, at.Hour())

	// The exact current minute counts as already passed.
	at, err = NextOccurrence("12:00", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 1).Day(), at.Day())
}

func TestNextOccurrenceInvalid(t *testing.T) {
	now := time.Now()

	_, err := NextOccurrence("25:99", now)
	assert.Error(t, err)
	_, err = NextOccurrence("8am", now)
	assert.Error(t, err)
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "just now", TimeAgo(now.Add(-10*time.Second)))
	assert.Equal(t, "1 minute ago", TimeAgo(now.Add(-70*time.Second)))
	assert.Equal(t, "5 minutes ago", TimeAgo(now.Add(-5*time.Minute)))
	assert.Equal(t, "2 hours ago", TimeAgo(now.Add(-2*time.Hour)))
	assert.Equal(t, "yesterday", TimeAgo(now.Add(-25*time.Hour)))
}

func TestTimeUntil(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "now", TimeUntil(now.Add(-time.Second)))
	assert.Equal(t, "in 15 minutes", TimeUntil(now.Add(15*time.Minute)))
	assert.Equal(t, "in 2 hours", TimeUntil(now.Add(2*time.Hour+time.Minute)))
	assert.Equal(t, "tomorrow", TimeUntil(now.Add(25*time.Hour)))
}
