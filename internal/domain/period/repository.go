package period

import (
	"context"
	"time"
)

// Repository persists period lock state and reopen history.
type Repository interface {
	// Get returns the period row for the key, or an implicit OPEN period
	// when no activity has touched the key yet.
	Get(ctx context.Context, companyID string, month, year int) (PayrollPeriod, error)

	// LockForTransition ensures the row exists and takes a row lock on it.
	// It must run inside a transaction placed in ctx; a concurrent holder
	// surfaces as ErrPeriodLocked instead of blocking.
	LockForTransition(ctx context.Context, companyID string, month, year int) (PayrollPeriod, error)

	// SetStatus mutates the period status; finalizedBy/finalizedAt are set
	// on FINALIZED and cleared on OPEN.
	SetStatus(ctx context.Context, companyID string, month, year int, status Status, actorID string, at time.Time) error

	// AppendReopenEvent stores one reopen history entry.
	AppendReopenEvent(ctx context.Context, event ReopenEvent) error

	// ListReopenEvents returns a period's reopen history, oldest first.
	ListReopenEvents(ctx context.Context, companyID string, month, year int) ([]ReopenEvent, error)

	// CountReopenEvents returns the number of reopen events for the key.
	CountReopenEvents(ctx context.Context, companyID string, month, year int) (int, error)
}

// Service is the payroll period state machine.
type Service interface {
	GetStatus(ctx context.Context, month, year int) (StatusResponse, error)
	Finalize(ctx context.Context, req FinalizeRequest) (StatusResponse, error)
	Reopen(ctx context.Context, req ReopenRequest) (StatusResponse, error)
	ReopenHistory(ctx context.Context, month, year int) ([]ReopenEventResponse, error)
}
