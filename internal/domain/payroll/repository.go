package payroll

import "context"

// EntryRepository is the read-only feed of approved payroll entries.
type EntryRepository interface {
	// ListApprovedEntries returns entries with positive net amounts for the
	// period, ordered by employee name then employee id.
	ListApprovedEntries(ctx context.Context, companyID string, month, year int, companyCode, costCenter *string) ([]Entry, error)

	// CountApprovedEntries reports how many approved entries exist for the
	// period regardless of filters.
	CountApprovedEntries(ctx context.Context, companyID string, month, year int) (int, error)

	// CompanyCodes returns the known company codes for filter validation.
	CompanyCodes(ctx context.Context, companyID string) ([]string, error)

	// CostCenters returns the known cost centers for filter validation.
	CostCenters(ctx context.Context, companyID string) ([]string, error)
}
