package response

import (
	"errors"
	"net/http"

	"github.com/folhacerta/folha-backend-go/internal/domain/payroll"
	"github.com/folhacerta/folha-backend-go/internal/domain/period"
	"github.com/folhacerta/folha-backend-go/internal/domain/remittance"
	"github.com/folhacerta/folha-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Remittance typed errors carry per-field / per-employee detail
	var missingBank *remittance.MissingBankDataError
	if errors.As(err, &missingBank) {
		ValidationErrorWithMessage(w, "Employees are missing banking data", missingBank.Details())
		return
	}
	var overflow *remittance.FieldOverflowError
	if errors.As(err, &overflow) {
		ValidationErrorWithMessage(w, err.Error(), map[string]string{overflow.Field: "value exceeds fixed field width"})
		return
	}
	var charset *remittance.CharsetError
	if errors.As(err, &charset) {
		ValidationErrorWithMessage(w, err.Error(), map[string]string{charset.Field: "contains characters the bank charset cannot represent"})
		return
	}

	// Period domain errors
	switch {
	case errors.Is(err, period.ErrAlreadyFinalized):
		Conflict(w, "Payroll period already finalized")
	case errors.Is(err, period.ErrNotFinalized):
		Conflict(w, "Payroll period is not finalized")
	case errors.Is(err, period.ErrPeriodLocked):
		Conflict(w, "Another transition is in progress for this period")
	case errors.Is(err, period.ErrNoPayrollData):
		ValidationErrorWithMessage(w, "No approved payroll entries for this period", nil)

	// Remittance domain errors
	case errors.Is(err, remittance.ErrPeriodNotFinalized):
		Conflict(w, "Payroll period must be finalized before remittance")
	case errors.Is(err, remittance.ErrEmptyRemittance):
		ValidationErrorWithMessage(w, "No payment records match the requested period and filters", nil)
	case errors.Is(err, remittance.ErrUnknownCompany):
		BadRequest(w, "Unknown company filter value", nil)
	case errors.Is(err, remittance.ErrUnknownCostCenter):
		BadRequest(w, "Unknown cost center filter value", nil)
	case errors.Is(err, remittance.ErrRendererUnavailable):
		BadGateway(w, "PDF renderer is unavailable")

	// Payroll feed errors
	case errors.Is(err, payroll.ErrEntriesUnavailable):
		BadGateway(w, "Payroll entries feed is unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
