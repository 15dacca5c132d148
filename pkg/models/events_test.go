package models

import (
	"encoding/json"
	"testing"
)

func TestSeverity_Valid(t *testing.T) {
	tests := []struct {
		sev  Severity
		want bool
	}{
		{SeverityCritical, true},
		{SeverityError, true},
		{SeverityWarning, true},
		{SeverityInfo, true},
		{Severity(""), false},
		{Severity("urgent"), false},
		{Severity("INFO"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.sev), func(t *testing.T) {
			if got := tt.sev.Valid(); got != tt.want {
				t.Errorf("Severity(%q).Valid() = %v, want %v", tt.sev, got, tt.want)
			}
		})
	}
}

func TestEvent_WireFormat(t *testing.T) {
	ev := Event{
		RoutingKey:  "R-KEY",
		EventAction: ActionTrigger,
		Payload: EventPayload{
			Summary:  "High load",
			Source:   "home-assistant",
			Severity: SeverityInfo,
		},
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"routing_key":"R-KEY","event_action":"trigger","payload":{"summary":"High load","source":"home-assistant","severity":"info"}}`
	if string(data) != want {
		t.Errorf("body = %s\nwant   %s", data, want)
	}
}

func TestEvent_NoFieldsOmitted(t *testing.T) {
	// The enqueue endpoint requires every field to be present, so none
	// of the tags may carry omitempty.
	data, err := json.Marshal(Event{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"routing_key":"","event_action":"","payload":{"summary":"","source":"","severity":""}}`
	if string(data) != want {
		t.Errorf("body = %s\nwant   %s", data, want)
	}
}
