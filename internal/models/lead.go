// Package models defines the data structures for the lead call bridge.
package models

// LeadSource tags every lead captured by the form intake.
const LeadSource = "duda-form"

// Lead is the validated subset of a form submission.
type Lead struct {
	Name    string `json:"name"`
	Phone   string `json:"-"`
	Email   string `json:"email"`
	Consent bool   `json:"-"`
	// Number is the normalized E.164 phone, set once Phone passes normalization.
	Number string `json:"number"`
	Source string `json:"source"`
}

// Validate checks the presence rules in the order the intake reports them.
func (l *Lead) Validate() error {
	if l.Name == "" {
		return ErrMissingName
	}
	if l.Phone == "" {
		return ErrMissingPhone
	}
	if !l.Consent {
		return ErrConsentRequired
	}
	return nil
}

// Normalize fills Number from Phone and reports ErrInvalidPhoneFormat when the
// result is not E.164. Number is set even on failure so it can be echoed back.
func (l *Lead) Normalize() error {
	l.Number = NormalizeUKPhone(l.Phone)
	if !IsE164(l.Number) {
		return ErrInvalidPhoneFormat
	}
	return nil
}
