package driving

import "context"

// RenewalService runs the daily token refresh, forever.
type RenewalService interface {
	// Run executes the daily renewal loop.
	// Blocks until the context is cancelled.
	Run(ctx context.Context) error

	// TriggerNow forces an immediate refresh outside the schedule
	// without disturbing the next computed trigger.
	TriggerNow(ctx context.Context) error
}
