package domain

import (
	"regexp"
	"sort"
	"strings"
)

// Field validators are pure: string in, error message out (empty = valid).
// They back the step gates in the checkout session and run again on the
// server regardless of any client-side validation.

var (
	zipCodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	expiryPattern  = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern     = regexp.MustCompile(`^\d{3,4}$`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

// ValidateRequired returns an error message when the value is blank.
func ValidateRequired(value string) string {
	if strings.TrimSpace(value) == "" {
		return "is required"
	}
	return ""
}

// ValidateZipCode checks a US postal code (12345 or 12345-6789).
func ValidateZipCode(value string) string {
	if strings.TrimSpace(value) == "" {
		return "is required"
	}
	if !zipCodePattern.MatchString(value) {
		return "must be a valid postal code"
	}
	return ""
}

// ValidateCardNumber checks for exactly 16 digits, ignoring whitespace.
func ValidateCardNumber(value string) string {
	digits := strings.Join(strings.Fields(value), "")
	if digits == "" {
		return "is required"
	}
	if len(digits) != 16 || !digitsPattern.MatchString(digits) {
		return "must be 16 digits"
	}
	return ""
}

// ValidateExpiry checks an MM/YY expiry with month 01-12.
func ValidateExpiry(value string) string {
	if strings.TrimSpace(value) == "" {
		return "is required"
	}
	if !expiryPattern.MatchString(value) {
		return "must be in MM/YY format"
	}
	return ""
}

// ValidateCVV checks a 3 or 4 digit security code.
func ValidateCVV(value string) string {
	if strings.TrimSpace(value) == "" {
		return "is required"
	}
	if !cvvPattern.MatchString(value) {
		return "must be 3 or 4 digits"
	}
	return ""
}

// FieldErrors maps field names to validation messages. A nil or empty map
// means the input is valid.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + " " + e[field]
	}
	return strings.Join(parts, "; ")
}

// AddressDraft is a new shipping address entered during checkout.
type AddressDraft struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Validate runs full field validation on the draft. Returns nil when valid.
func (d AddressDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if msg := ValidateRequired(d.Name); msg != "" {
		errs["name"] = msg
	}
	if msg := ValidateRequired(d.Street); msg != "" {
		errs["street"] = msg
	}
	if msg := ValidateRequired(d.City); msg != "" {
		errs["city"] = msg
	}
	if msg := ValidateRequired(d.State); msg != "" {
		errs["state"] = msg
	}
	if msg := ValidateZipCode(d.ZipCode); msg != "" {
		errs["zip_code"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CardDraft is a new card entered during checkout. Only a summary ever leaves
// this process; the full number is sent to the payment gateway, never stored.
type CardDraft struct {
	Number     string `json:"number"`
	HolderName string `json:"holder_name"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// Validate runs full field validation on the draft. Returns nil when valid.
func (d CardDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if msg := ValidateCardNumber(d.Number); msg != "" {
		errs["number"] = msg
	}
	if msg := ValidateRequired(d.HolderName); msg != "" {
		errs["holder_name"] = msg
	}
	if msg := ValidateExpiry(d.Expiry); msg != "" {
		errs["expiry"] = msg
	}
	if msg := ValidateCVV(d.CVV); msg != "" {
		errs["cvv"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
