package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScheduleConfig holds renewal scheduler configuration.
type ScheduleConfig struct {
	// TriggerHour is the local hour (0-23) of the daily refresh.
	TriggerHour int

	// TriggerMinute is the local minute (0-59) of the daily refresh.
	TriggerMinute int

	// MaxAttempts bounds how many times a failed refresh is retried
	// within the same day.
	MaxAttempts int

	// RetryDelay is the wait between retry attempts.
	RetryDelay time.Duration
}

// DefaultScheduleConfig returns the default daily refresh schedule:
// 02:00 local time, three attempts, five minutes apart.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		TriggerHour:   2,
		TriggerMinute: 0,
		MaxAttempts:   3,
		RetryDelay:    5 * time.Minute,
	}
}

// ParseTriggerTime parses an "HH:MM" trigger time into a ScheduleConfig,
// keeping the default retry policy.
func ParseTriggerTime(s string) (ScheduleConfig, error) {
	cfg := DefaultScheduleConfig()

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return cfg, fmt.Errorf("%w: trigger time %q, want HH:MM", ErrInvalidInput, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return cfg, fmt.Errorf("%w: trigger hour %q", ErrInvalidInput, parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return cfg, fmt.Errorf("%w: trigger minute %q", ErrInvalidInput, parts[1])
	}

	cfg.TriggerHour = hour
	cfg.TriggerMinute = minute
	return cfg, nil
}

// NextTrigger computes the next future timestamp matching the configured
// hour and minute: today if that time has not yet passed, otherwise
// tomorrow. Always derived from now, never from a stored countdown, so a
// process restarted mid-wait picks up the correct slot.
func (c ScheduleConfig) NextTrigger(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), c.TriggerHour, c.TriggerMinute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// TriggerTime formats the configured trigger as "HH:MM".
func (c ScheduleConfig) TriggerTime() string {
	return fmt.Sprintf("%02d:%02d", c.TriggerHour, c.TriggerMinute)
}
