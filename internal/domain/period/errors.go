package period

import "errors"

var (
	ErrAlreadyFinalized = errors.New("payroll period already finalized")
	ErrNotFinalized     = errors.New("payroll period is not finalized")
	ErrNoPayrollData    = errors.New("no approved payroll entries for this period")
	// ErrPeriodLocked means another transition holds the period row.
	ErrPeriodLocked = errors.New("concurrent transition in progress for this period")
)
