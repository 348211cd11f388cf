package submission

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	nameRe     = regexp.MustCompile(`^[A-Za-z\s'-]+$`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// phoneDigits is the exact digit count a US phone number must have after
// stripping formatting.
const phoneDigits = 10

// Validate checks a raw submission against the form rules. All violations
// are collected; nothing short-circuits. It is pure and deterministic.
func Validate(raw RawSubmission) ValidationResult {
	var errs []string

	required := []struct {
		value string
		label string
	}{
		{raw.Name, "Name"},
		{raw.Phone, "Phone"},
		{raw.Address, "Address"},
		{raw.ServiceType, "Service type"},
		{raw.Needed, "Needed"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, f.label+" is required")
		}
	}

	if strings.TrimSpace(raw.Name) != "" {
		if len(raw.Name) < 2 {
			errs = append(errs, "Name must be at least 2 characters long")
		}
		if !nameRe.MatchString(raw.Name) {
			errs = append(errs, "Name contains invalid characters")
		}
	}

	if strings.TrimSpace(raw.Phone) != "" {
		if len(StripNonDigits(raw.Phone)) != phoneDigits {
			errs = append(errs, "Phone number must be exactly 10 digits")
		}
	}

	// Email is optional; absence is not an error.
	if raw.Email != "" {
		if _, err := mail.ParseAddress(raw.Email); err != nil {
			errs = append(errs, "Invalid email address")
		}
	}

	if addr := strings.TrimSpace(raw.Address); addr != "" && len(addr) < 5 {
		errs = append(errs, "Please provide a complete address")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// StripNonDigits removes every non-digit rune from s.
func StripNonDigits(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}
