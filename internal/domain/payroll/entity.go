package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one employee's approved net pay for a period, as produced by
// the payroll-calculation side of the system. This package only reads
// entries; generating and editing them belongs to that collaborator.
type Entry struct {
	ID            string
	EmployeeID    string
	EmployeeName  string
	CompanyID     string
	CompanyCode   string
	CostCenter    *string
	PeriodMonth   int
	PeriodYear    int
	NetAmount     decimal.Decimal
	ReferenceDate time.Time

	// Banking data joined from the employee record. Empty strings mean
	// the employee has not registered the field yet.
	BankCode     string
	BankAgency   string
	AgencyDigit  string
	BankAccount  string
	AccountDigit string
}
