package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateZipCode(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"five digits", "12345", true},
		{"zip plus four", "12345-6789", true},
		{"too short", "1234", false},
		{"letters", "1234a", false},
		{"missing plus four digits", "12345-678", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateZipCode(tt.value)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"sixteen digits", "4111111111111111", true},
		{"sixteen digits with spaces", "4111 1111 1111 1111", true},
		{"fifteen digits", "4111 1111 1111 111", false},
		{"seventeen digits", "41111111111111112", false},
		{"letters", "4111abcd11111111", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateCardNumber(tt.value)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateExpiry(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"september", "09/25", true},
		{"january", "01/30", true},
		{"december", "12/27", true},
		{"month thirteen", "13/25", false},
		{"month zero", "00/25", false},
		{"single digit month", "9/25", false},
		{"four digit year", "09/2025", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateExpiry(tt.value)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateCVV(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"three digits", "123", true},
		{"four digits", "1234", true},
		{"two digits", "12", false},
		{"five digits", "12345", false},
		{"letters", "12a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateCVV(tt.value)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestAddressDraft_Validate(t *testing.T) {
	valid := AddressDraft{
		Name:    "Jordan Reyes",
		Street:  "12 Fern Way",
		City:    "Portland",
		State:   "OR",
		ZipCode: "97201",
	}
	assert.Nil(t, valid.Validate())

	missing := AddressDraft{ZipCode: "bad"}
	errs := missing.Validate()
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "street")
	assert.Contains(t, errs, "city")
	assert.Contains(t, errs, "state")
	assert.Contains(t, errs, "zip_code")
}

func TestCardDraft_Validate(t *testing.T) {
	valid := CardDraft{
		Number:     "4111 1111 1111 1111",
		HolderName: "Jordan Reyes",
		Expiry:     "09/27",
		CVV:        "123",
	}
	assert.Nil(t, valid.Validate())

	bad := CardDraft{Number: "4111", Expiry: "13/25", CVV: "12"}
	errs := bad.Validate()
	assert.Contains(t, errs, "number")
	assert.Contains(t, errs, "holder_name")
	assert.Contains(t, errs, "expiry")
	assert.Contains(t, errs, "cvv")
	assert.NotEmpty(t, errs.Error())
}

func TestFieldErrors_ErrorIsDeterministic(t *testing.T) {
	errs := FieldErrors{
		"zip_code": "is required",
		"city":     "is required",
		"name":     "is required",
	}

	want := "city is required; name is required; zip_code is required"
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, errs.Error())
	}

	assert.Empty(t, FieldErrors{}.Error())
}
