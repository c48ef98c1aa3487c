package models

import (
	"errors"
	"regexp"
	"strings"
)

// Lead validation errors
var (
	ErrMissingName        = errors.New("missing name")
	ErrMissingPhone       = errors.New("missing phone")
	ErrConsentRequired    = errors.New("consent required")
	ErrInvalidPhoneFormat = errors.New("invalid phone format")
)

var (
	nonDigitPattern   = regexp.MustCompile(`\D`)
	bareDigitsPattern = regexp.MustCompile(`^\d{8,15}$`)
	e164Pattern       = regexp.MustCompile(`^\+\d{8,15}$`)
)

// consentTokens are the form values that count as an affirmative opt-in.
var consentTokens = map[string]bool{
	"yes":     true,
	"y":       true,
	"1":       true,
	"on":      true,
	"checked": true,
	"true":    true,
	"agree":   true,
}

// NormalizeUKPhone converts a raw phone value to E.164, assuming UK local
// formats where the number is not already international. The result is not
// guaranteed to be valid; check it with IsE164.
func NormalizeUKPhone(phone string) string {
	digits := nonDigitPattern.ReplaceAllString(phone, "")
	if strings.HasPrefix(phone, "+") {
		// Only a leading plus survives.
		digits = "+" + digits
	}

	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "+"):
		return digits
	case strings.HasPrefix(digits, "00"):
		return "+" + digits[2:]
	case strings.HasPrefix(digits, "447"):
		return "+" + digits
	case strings.HasPrefix(digits, "07"):
		return "+44" + digits[1:]
	case bareDigitsPattern.MatchString(digits):
		return "+" + digits
	}

	// Left as is, fails IsE164.
	return digits
}

// IsE164 reports whether number is "+" followed by 8 to 15 digits.
func IsE164(number string) bool {
	return e164Pattern.MatchString(number)
}

// IsConsentToken reports whether a stringified form value means "I agree".
// Matching is case-insensitive but whitespace is significant.
func IsConsentToken(value string) bool {
	return consentTokens[strings.ToLower(value)]
}
