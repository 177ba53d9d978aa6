package remittance

import (
	"time"

	"github.com/folhacerta/folha-backend-go/internal/pkg/money"
)

// BankAccount holds the beneficiary account coordinates required by the
// remittance layout. Check digits are optional for some banks.
type BankAccount struct {
	BankCode     string
	Agency       string
	AgencyDigit  string
	Account      string
	AccountDigit string
}

// Complete reports whether the fields required for a detail record are present.
func (b BankAccount) Complete() bool {
	return b.BankCode != "" && b.Agency != "" && b.Account != ""
}

// PaymentRecord is the derived, read-only projection of one employee's
// payment for a period. It is recomputed on every aggregation request
// and never persisted.
type PaymentRecord struct {
	EmployeeID    string
	EmployeeName  string
	Amount        money.Cents
	Bank          BankAccount
	CompanyCode   string
	CostCenter    *string
	ReferenceDate time.Time
}

// Filter is the closed set of aggregation filters. Values are validated
// against the known enumerations before any query runs.
type Filter struct {
	CompanyCode *string
	CostCenter  *string
}

// HeaderInfo carries the originating-company identification written to
// the remittance file header.
type HeaderInfo struct {
	BankCode        string
	CompanyName     string
	CompanyDocument string
	GeneratedAt     time.Time
	// Sequence is the allocated remessa number for this file.
	Sequence int
}

// ManifestLine is one row of the borderô.
type ManifestLine struct {
	EmployeeID    string
	EmployeeName  string
	CostCenter    string
	AmountCents   money.Cents
	AmountDisplay string
}

// Manifest is the aggregate handed to the PDF renderer.
type Manifest struct {
	PeriodLabel  string
	CompanyCode  string
	CostCenter   string
	GeneratedAt  time.Time
	Lines        []ManifestLine
	TotalCents   money.Cents
	TotalDisplay string
}
