package formdata

import (
	"strings"

	"lead-call-bridge/internal/models"
)

// Candidate keys and labels for each lead field, in lookup order.
var (
	NameFields    = []string{"name", "full name", "your name", "Name"}
	PhoneFields   = []string{"phone", "mobile", "telephone", "phone number", "Phone", "Mobile Number"}
	EmailFields   = []string{"email", "e-mail", "Email", "Email Address"}
	ConsentFields = []string{"consent", "opt-in", "agree", "Consent", "I agree", "I consent"}
)

// Extractor applies lookup strategies in a fixed order.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor creates an extractor. With no strategies it uses DefaultStrategies.
func NewExtractor(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	return &Extractor{strategies: strategies}
}

// Lookup returns the value of the first strategy that finds one of names.
func (e *Extractor) Lookup(p Payload, names ...string) (any, bool) {
	for _, strategy := range e.strategies {
		if v, ok := strategy(p, names); ok {
			return v, true
		}
	}
	return nil, false
}

// Text returns the trimmed text value of a field, or "".
func (e *Extractor) Text(p Payload, names ...string) string {
	v, _ := e.Lookup(p, names...)
	return strings.TrimSpace(Stringify(v))
}

// Consent reports whether the payload carries an affirmative opt-in.
func (e *Extractor) Consent(p Payload, names ...string) bool {
	v, _ := e.Lookup(p, names...)
	if b, ok := v.(bool); ok {
		return b
	}
	return models.IsConsentToken(Stringify(v))
}

// ExtractLead reads and validates the lead fields. The lead is returned even
// when validation fails so callers can log what was received.
func (e *Extractor) ExtractLead(p Payload) (*models.Lead, error) {
	lead := &models.Lead{
		Name:    e.Text(p, NameFields...),
		Phone:   e.Text(p, PhoneFields...),
		Email:   e.Text(p, EmailFields...),
		Consent: e.Consent(p, ConsentFields...),
		Source:  models.LeadSource,
	}
	return lead, lead.Validate()
}
