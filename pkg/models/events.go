package models

// Severity classifies event urgency for the PagerDuty Events API.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Valid reports whether s is one of the severities the Events API accepts.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// EventAction is the Events API lifecycle verb.
type EventAction string

// ActionTrigger opens (or re-triggers) an incident. Acknowledge and
// resolve are not part of this bridge's contract.
const ActionTrigger EventAction = "trigger"

// EventPayload is the nested payload object of an enqueue request.
type EventPayload struct {
	Summary  string   `json:"summary"`
	Source   string   `json:"source"`
	Severity Severity `json:"severity"`
}

// Event is the body POSTed to the Events API v2 enqueue endpoint.
// Field order matters: it determines the marshalled byte layout.
type Event struct {
	RoutingKey  string       `json:"routing_key"`
	EventAction EventAction  `json:"event_action"`
	Payload     EventPayload `json:"payload"`
}
