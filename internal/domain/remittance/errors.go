package remittance

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPeriodNotFinalized  = errors.New("payroll period is not finalized")
	ErrEmptyRemittance     = errors.New("no payment records to remit")
	ErrUnknownCompany      = errors.New("unknown company filter value")
	ErrUnknownCostCenter   = errors.New("unknown cost center filter value")
	ErrRendererUnavailable = errors.New("pdf renderer unavailable")
)

// FieldOverflowError reports a value wider than its fixed-width slot.
// Truncating instead would mis-transcribe names or account numbers.
type FieldOverflowError struct {
	Field string
	Value string
	Width int
}

func (e *FieldOverflowError) Error() string {
	return fmt.Sprintf("field %s value %q exceeds width %d", e.Field, e.Value, e.Width)
}

// CharsetError reports a character that cannot be represented in the
// target encoding of the remittance file.
type CharsetError struct {
	Field string
	Err   error
}

func (e *CharsetError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *CharsetError) Unwrap() error {
	return e.Err
}

// MissingBankDataError names every employee whose banking data blocks a
// remittance file, so the caller can show the full list at once.
type MissingBankDataError struct {
	Employees []MissingBankData
}

// MissingBankData lists the absent fields for one employee.
type MissingBankData struct {
	EmployeeID   string
	EmployeeName string
	Fields       []string
}

func (e *MissingBankDataError) Error() string {
	names := make([]string, len(e.Employees))
	for i, emp := range e.Employees {
		names[i] = fmt.Sprintf("%s (%s)", emp.EmployeeName, strings.Join(emp.Fields, ", "))
	}
	return "employees missing banking data: " + strings.Join(names, "; ")
}

// Details maps employee names to their missing fields for the error envelope.
func (e *MissingBankDataError) Details() map[string]string {
	details := make(map[string]string, len(e.Employees))
	for _, emp := range e.Employees {
		details[emp.EmployeeName] = "missing " + strings.Join(emp.Fields, ", ")
	}
	return details
}
