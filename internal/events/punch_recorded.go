package events

import "time"

const (
	PunchRecordedTopic = "presence.attendance.punch.v1"
	PunchRecordedType  = "punch_recorded"
)

// PunchRecordedEvent is published once per journaled punch attempt.
type PunchRecordedEvent struct {
	EventType  string    `json:"event_type"`
	JournalID  string    `json:"journal_id"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	Direction  string    `json:"direction"`
	SessionID  string    `json:"session_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Message    string    `json:"message,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	OccurredAt time.Time `json:"occurred_at"`
}
