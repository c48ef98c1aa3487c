package models

import (
	"time"
)

// CallType values accepted by the call API.
const (
	CallTypeOutboundPhone = "outboundPhoneCall"
)

// MaxCallDurationSeconds caps every outbound call.
const MaxCallDurationSeconds = 180

// ConsentPurposeDemoCall is what the submitter agreed to be called for.
const ConsentPurposeDemoCall = "demo-call"

// submittedAtLayout matches the millisecond UTC timestamps the call dashboard shows.
const submittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Customer identifies who the call API should dial.
type Customer struct {
	Number string `json:"number"`
}

// CallMetadata travels with the call and comes back on every event.
type CallMetadata struct {
	Lead           Lead   `json:"lead"`
	ConsentPurpose string `json:"consentPurpose"`
	SubmittedAt    string `json:"submittedAt"`
}

// CallRequest is the body of POST /call.
type CallRequest struct {
	Type               string       `json:"type"`
	AssistantID        string       `json:"assistantId"`
	PhoneNumberID      string       `json:"phoneNumberId"`
	Customer           Customer     `json:"customer"`
	Metadata           CallMetadata `json:"metadata"`
	MaxDurationSeconds int          `json:"maxDurationSeconds"`
}

// CallResponse is the subset of the call API response we read.
type CallResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// NewOutboundCall builds the call request for a normalized lead.
func NewOutboundCall(assistantID, phoneNumberID string, lead Lead, now time.Time) *CallRequest {
	lead.Source = LeadSource
	return &CallRequest{
		Type:          CallTypeOutboundPhone,
		AssistantID:   assistantID,
		PhoneNumberID: phoneNumberID,
		Customer:      Customer{Number: lead.Number},
		Metadata: CallMetadata{
			Lead:           lead,
			ConsentPurpose: ConsentPurposeDemoCall,
			SubmittedAt:    now.UTC().Format(submittedAtLayout),
		},
		MaxDurationSeconds: MaxCallDurationSeconds,
	}
}
