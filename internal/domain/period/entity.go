package period

import "time"

// Status enumerates the payroll period lifecycle. A reopened period goes
// back to OPEN; its reopen events are the audit trail that distinguishes
// "never finalized" from "finalized then reopened".
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusFinalized Status = "FINALIZED"
)

// PayrollPeriod is the lock state for one (company, month, year) key.
// Rows are created implicitly the first time a transition touches the
// key and are never deleted.
type PayrollPeriod struct {
	ID          string
	CompanyID   string
	Month       int
	Year        int
	Status      Status
	FinalizedAt *time.Time
	FinalizedBy *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReopenEvent is one append-only entry in a period's reopen history.
type ReopenEvent struct {
	ID         string
	CompanyID  string
	Month      int
	Year       int
	ReopenedAt time.Time
	ReopenedBy string
	Reason     *string
}
