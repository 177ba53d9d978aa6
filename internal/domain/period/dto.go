package period

import (
	"github.com/folhacerta/folha-backend-go/internal/pkg/validator"
)

type StatusResponse struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Status      Status  `json:"status"`
	FinalizedAt *string `json:"finalized_at,omitempty"`
	FinalizedBy *string `json:"finalized_by,omitempty"`
	ReopenCount int     `json:"reopen_count"`
}

type FinalizeRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *FinalizeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPayrollYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReopenRequest struct {
	Month  int     `json:"month"`
	Year   int     `json:"year"`
	Reason *string `json:"reason,omitempty"`
}

func (r *ReopenRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPayrollYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}
	if r.Reason != nil && len(*r.Reason) > 200 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "must be at most 200 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReopenEventResponse struct {
	ID         string  `json:"id"`
	ReopenedAt string  `json:"reopened_at"`
	ReopenedBy string  `json:"reopened_by"`
	Reason     *string `json:"reason,omitempty"`
}
