package models

// EventType discriminates call API server messages.
type EventType string

const (
	EventStatusUpdate    EventType = "status-update"
	EventTranscript      EventType = "transcript"
	EventEndOfCallReport EventType = "end-of-call-report"
)

// Call statuses reported by status-update events.
const (
	CallStatusQueued     = "queued"
	CallStatusRinging    = "ringing"
	CallStatusInProgress = "in-progress"
	CallStatusForwarding = "forwarding"
	CallStatusEnded      = "ended"
)

// IsKnown reports whether the event type is one the sink classifies.
func (e EventType) IsKnown() bool {
	switch e {
	case EventStatusUpdate, EventTranscript, EventEndOfCallReport:
		return true
	}
	return false
}

// CallEvent is the envelope posted to the event sink.
type CallEvent struct {
	Message *EventMessage `json:"message,omitempty"`
}

// EventMessage holds the fields of every known event type. Fields that do not
// apply to a given type are left empty.
type EventMessage struct {
	Type EventType  `json:"type"`
	Call *EventCall `json:"call,omitempty"`

	// status-update
	Status string `json:"status,omitempty"`

	// transcript
	Role           string `json:"role,omitempty"`
	TranscriptType string `json:"transcriptType,omitempty"`
	Transcript     string `json:"transcript,omitempty"`

	// end-of-call-report
	EndedReason  string `json:"endedReason,omitempty"`
	Summary      string `json:"summary,omitempty"`
	RecordingURL string `json:"recordingUrl,omitempty"`
}

// EventCall is the call the event refers to.
type EventCall struct {
	ID       string        `json:"id"`
	Metadata *CallMetadata `json:"metadata,omitempty"`
}

// Type returns the message type, or "" when the envelope has none.
func (e *CallEvent) Type() EventType {
	if e == nil || e.Message == nil {
		return ""
	}
	return e.Message.Type
}

// CallID returns the id of the call the event refers to, if any.
func (e *CallEvent) CallID() string {
	if e == nil || e.Message == nil || e.Message.Call == nil {
		return ""
	}
	return e.Message.Call.ID
}
