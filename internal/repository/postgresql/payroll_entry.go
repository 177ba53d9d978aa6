package postgresql

import (
	"context"
	"fmt"

	"github.com/folhacerta/folha-backend-go/internal/domain/payroll"
	"github.com/folhacerta/folha-backend-go/internal/pkg/database"
)

type payrollEntryRepository struct {
	db *database.DB
}

func NewPayrollEntryRepository(db *database.DB) payroll.EntryRepository {
	return &payrollEntryRepository{db: db}
}

func (r *payrollEntryRepository) ListApprovedEntries(ctx context.Context, companyID string, month, year int, companyCode, costCenter *string) ([]payroll.Entry, error) {
	q := GetQuerier(ctx, r.db)

	// Ordering by name then id keeps aggregation deterministic; the
	// encoder's record sequencing depends on it.
	query := `
		SELECT pe.id, pe.employee_id, e.full_name, pe.company_id, pe.company_code,
			   pe.cost_center, pe.period_month, pe.period_year, pe.net_amount, pe.reference_date,
			   COALESCE(e.bank_code, ''), COALESCE(e.bank_agency, ''), COALESCE(e.bank_agency_digit, ''),
			   COALESCE(e.bank_account, ''), COALESCE(e.bank_account_digit, '')
		FROM payroll_entries pe
		JOIN employees e ON e.id = pe.employee_id
		WHERE pe.company_id = $1
		  AND pe.period_month = $2
		  AND pe.period_year = $3
		  AND pe.status = 'approved'
		  AND pe.net_amount > 0
		  AND ($4::text IS NULL OR pe.company_code = $4)
		  AND ($5::text IS NULL OR pe.cost_center = $5)
		ORDER BY e.full_name ASC, pe.employee_id ASC
	`

	rows, err := q.Query(ctx, query, companyID, month, year, companyCode, costCenter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payroll.ErrEntriesUnavailable, err)
	}
	defer rows.Close()

	var entries []payroll.Entry
	for rows.Next() {
		var e payroll.Entry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.EmployeeName, &e.CompanyID, &e.CompanyCode,
			&e.CostCenter, &e.PeriodMonth, &e.PeriodYear, &e.NetAmount, &e.ReferenceDate,
			&e.BankCode, &e.BankAgency, &e.AgencyDigit, &e.BankAccount, &e.AccountDigit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll entries: %w", err)
	}

	return entries, nil
}

func (r *payrollEntryRepository) CountApprovedEntries(ctx context.Context, companyID string, month, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM payroll_entries
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3 AND status = 'approved'
	`

	var count int
	if err := q.QueryRow(ctx, query, companyID, month, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", payroll.ErrEntriesUnavailable, err)
	}

	return count, nil
}

func (r *payrollEntryRepository) CompanyCodes(ctx context.Context, companyID string) ([]string, error) {
	return r.distinctValues(ctx, companyID, "company_code")
}

func (r *payrollEntryRepository) CostCenters(ctx context.Context, companyID string) ([]string, error) {
	return r.distinctValues(ctx, companyID, "cost_center")
}

func (r *payrollEntryRepository) distinctValues(ctx context.Context, companyID, column string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	// column comes from the two callers above, never from user input.
	query := fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM payroll_entries
		WHERE company_id = $1 AND %s IS NOT NULL
		ORDER BY %s ASC
	`, column, column, column)

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s values: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s value: %w", column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s values: %w", column, err)
	}

	return values, nil
}
