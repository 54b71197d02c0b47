package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
	"github.com/meridian-labs/brokerauth-cli/internal/core/ports/driving"
)

// Ensure RenewalScheduler implements the interface.
var _ driving.RenewalService = (*RenewalScheduler)(nil)

// RenewalScheduler triggers a token refresh once per day at the configured
// trigger time, forever, with bounded same-day retry on transient failure.
//
// One daemon, one outstanding refresh at a time: the lifecycle manager
// serializes the exchange itself, and the scheduler never starts a new
// attempt cycle while one is running. The daily wait is a cancellable
// timer, recomputed from the wall clock on every iteration, so a restart
// mid-wait picks up the correct slot rather than resuming a countdown.
type RenewalScheduler struct {
	config    domain.ScheduleConfig
	lifecycle driving.TokenLifecycle
	now       func() time.Time
}

// NewRenewalScheduler creates a renewal scheduler.
func NewRenewalScheduler(config domain.ScheduleConfig, lifecycle driving.TokenLifecycle) *RenewalScheduler {
	return &RenewalScheduler{
		config:    config,
		lifecycle: lifecycle,
		now:       time.Now,
	}
}

// Run executes the daily renewal loop. Blocks until ctx is cancelled.
// Refresh failures never stop the loop: a terminal failure is logged for
// the operator and the next day's slot is still scheduled, so a manual
// re-bootstrap mid-day is picked up automatically.
func (s *RenewalScheduler) Run(ctx context.Context) error {
	for {
		next := s.config.NextTrigger(s.now())
		log.Printf("renewal: next refresh scheduled at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		// Retries must not spill past the following day's slot.
		deadline := s.config.NextTrigger(s.now())
		s.runCycle(ctx, deadline)
	}
}

// TriggerNow forces an immediate refresh outside the schedule. The next
// computed trigger is unaffected: Run derives it from the wall clock, not
// from the last refresh.
func (s *RenewalScheduler) TriggerNow(ctx context.Context) error {
	id := attemptID()
	log.Printf("renewal[%s]: manual refresh requested", id)
	_, err := s.lifecycle.Refresh(ctx)
	if err != nil {
		log.Printf("renewal[%s]: manual refresh failed: %v", id, err)
		return err
	}
	log.Printf("renewal[%s]: manual refresh succeeded", id)
	return nil
}

// runCycle performs one scheduled refresh with bounded retry. Only
// transient failures (transport errors, broker 5xx) are retried; anything
// requiring operator action is logged once and left for the next day.
func (s *RenewalScheduler) runCycle(ctx context.Context, deadline time.Time) {
	id := attemptID()

	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		_, err := s.lifecycle.Refresh(ctx)
		if err == nil {
			log.Printf("renewal[%s]: refresh succeeded (attempt %d/%d)", id, attempt, s.config.MaxAttempts)
			return
		}
		if ctx.Err() != nil {
			return
		}

		if domain.IsTerminal(err) {
			log.Printf("renewal[%s]: MANUAL INTERVENTION REQUIRED: %v", id, err)
			log.Printf("renewal[%s]: automated recovery is impossible; rerun 'brokerauth bootstrap'", id)
			return
		}
		if !domain.IsTransient(err) {
			// Client-side rejection: retrying the same request today
			// cannot succeed.
			log.Printf("renewal[%s]: refresh rejected, deferring to next scheduled slot: %v", id, err)
			return
		}

		log.Printf("renewal[%s]: refresh failed (attempt %d/%d): %v", id, attempt, s.config.MaxAttempts, err)
		if attempt == s.config.MaxAttempts {
			log.Printf("renewal[%s]: attempts exhausted, deferring to next scheduled slot", id)
			return
		}
		if s.now().Add(s.config.RetryDelay).After(deadline) {
			log.Printf("renewal[%s]: retry window closed, deferring to next scheduled slot", id)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.config.RetryDelay):
		}
	}
}

// attemptID returns a short correlation ID for one refresh cycle's logs.
func attemptID() string {
	return uuid.NewString()[:8]
}
