package payroll

import "errors"

var (
	ErrEntriesUnavailable = errors.New("payroll entries feed unavailable")
)
