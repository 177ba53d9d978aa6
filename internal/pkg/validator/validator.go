package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// IsValidMonth checks a payroll period month.
func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// IsValidPayrollYear bounds the period year to the range the payroll
// module has ever operated in.
func IsValidPayrollYear(year int) bool {
	return year >= 2000 && year <= time.Now().Year()+1
}

// IsValidBankCode validates a 3-digit bank compensation code.
func IsValidBankCode(code string) bool {
	return len(code) == 3 && IsNumeric(code)
}

// IsValidAgency validates a bank agency number (up to 4 digits).
func IsValidAgency(agency string) bool {
	return len(agency) >= 1 && len(agency) <= 4 && IsNumeric(agency)
}

// IsValidAccount validates a bank account number (up to 10 digits).
func IsValidAccount(account string) bool {
	return len(account) >= 1 && len(account) <= 10 && IsNumeric(account)
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
