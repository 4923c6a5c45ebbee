package scheduler

import "context"

// Job is a unit of work executed by the worker pool. Implementations must
// respect the context for cancellation and timeouts.
type Job interface {
	Execute(ctx context.Context) error

	// UserID identifies whose data the job touches, for logging.
	UserID() string

	// Description names the job in logs.
	Description() string
}
