package remittance

import (
	"github.com/folhacerta/folha-backend-go/internal/pkg/validator"
)

type PaymentRecordResponse struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	AmountCents   int64   `json:"amount_cents"`
	AmountDisplay string  `json:"amount_display"`
	BankCode      string  `json:"bank_code"`
	Agency        string  `json:"agency"`
	AgencyDigit   string  `json:"agency_digit,omitempty"`
	Account       string  `json:"account"`
	AccountDigit  string  `json:"account_digit,omitempty"`
	CostCenter    *string `json:"cost_center,omitempty"`
	ReferenceDate string  `json:"reference_date"`
}

type RecordListResponse struct {
	Month       int                     `json:"month"`
	Year        int                     `json:"year"`
	CompanyCode string                  `json:"company_code,omitempty"`
	CostCenter  string                  `json:"cost_center,omitempty"`
	Records     []PaymentRecordResponse `json:"records"`
	TotalCents  int64                   `json:"total_cents"`
}

type BankDataValidationResponse struct {
	Valid   bool              `json:"valid"`
	Missing []MissingBankData `json:"missing,omitempty"`
}

// GenerateRequest parameterizes record listing, borderô and CNAB400
// generation. Filters are optional; month and year are not.
type GenerateRequest struct {
	Month       int
	Year        int
	CompanyCode *string
	CostCenter  *string
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPayrollYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}
	if r.CompanyCode != nil && validator.IsEmpty(*r.CompanyCode) {
		errs = append(errs, validator.ValidationError{Field: "company", Message: "must not be blank when provided"})
	}
	if r.CostCenter != nil && validator.IsEmpty(*r.CostCenter) {
		errs = append(errs, validator.ValidationError{Field: "cost_center", Message: "must not be blank when provided"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter converts the request into the closed aggregation filter.
func (r *GenerateRequest) Filter() Filter {
	return Filter{CompanyCode: r.CompanyCode, CostCenter: r.CostCenter}
}
