package attendance

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ClockedInMessage is the exact status message the service uses for
// "currently clocked in". Matching on it is fragile; see Status.Signal.
const ClockedInMessage = "Employee is currently clocked in"

type Direction string

const (
	ClockIn  Direction = "clock_in"
	ClockOut Direction = "clock_out"
)

func (d Direction) Label() string {
	if d == ClockOut {
		return "punch out"
	}
	return "punch in"
}

const (
	SignalField   = "field"
	SignalMessage = "message"
)

// Status is the remote view of whether the employee is clocked in. Signal
// tells which contract produced ClockedIn: a structured boolean or the
// message string match.
type Status struct {
	ClockedIn bool
	Message   string
	Signal    string
}

type PunchRequest struct {
	EmployeeID string
	CompanyID  string
	Direction  Direction
	Latitude   float64
	Longitude  float64
}

type PunchReceipt struct {
	StatusCode int
	Message    string
}

// Entry is one remote attendance record. ClockIn is zero when the service
// sent no parseable clock-in time.
type Entry struct {
	ID                  string
	Timestamp           string
	Date                string
	ClockIn             time.Time
	ClockOut            *time.Time
	Status              string
	Standing            string
	WorkingHours        *float64
	ClockInShiftStatus  string
	ClockOutShiftStatus string
}

// --- wire formats ---

type punchBody struct {
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"companyId"`
	Type       Direction `json:"type"`
	ClockIn    bool      `json:"clock_in"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
}

type messageBody struct {
	Message string `json:"message"`
}

type statusBody struct {
	Status      flexInt `json:"status"`
	Message     string  `json:"message"`
	ClockedIn   *bool   `json:"clocked_in"`
	IsClockedIn *bool   `json:"is_clocked_in"`
	Data        *struct {
		ClockedIn *bool `json:"clocked_in"`
	} `json:"data"`
}

func (b statusBody) present() bool {
	return int(b.Status) != 0 || b.Message != "" || b.ClockedIn != nil || b.IsClockedIn != nil || b.Data != nil
}

func (b statusBody) evaluate() Status {
	var nested *bool
	if b.Data != nil {
		nested = b.Data.ClockedIn
	}
	for _, v := range []*bool{b.ClockedIn, b.IsClockedIn, nested} {
		if v != nil {
			return Status{ClockedIn: *v, Message: b.Message, Signal: SignalField}
		}
	}
	return Status{
		ClockedIn: int(b.Status) == 200 && b.Message == ClockedInMessage,
		Message:   b.Message,
		Signal:    SignalMessage,
	}
}

type historyEnvelope struct {
	History *[]historyEntry `json:"history"`
	Data    *[]historyEntry `json:"data"`
}

type historyEntry struct {
	ID                  json.RawMessage `json:"id"`
	Timestamp           json.RawMessage `json:"timestamp"`
	Date                string          `json:"date"`
	ClockInTime         string          `json:"clock_in_time"`
	ClockIn             string          `json:"clock_in"`
	ClockOutTime        string          `json:"clock_out_time"`
	ClockOut            string          `json:"clock_out"`
	Status              string          `json:"status"`
	Standing            string          `json:"standing"`
	WorkingHours        *float64        `json:"working_hours"`
	ClockInShiftStatus  string          `json:"clock_in_shift_status"`
	ClockOutShiftStatus string          `json:"clock_out_shift_status"`
}

func (h historyEntry) toEntry() Entry {
	e := Entry{
		ID:                  rawText(h.ID),
		Timestamp:           rawText(h.Timestamp),
		Date:                h.Date,
		Status:              h.Status,
		Standing:            h.Standing,
		WorkingHours:        h.WorkingHours,
		ClockInShiftStatus:  h.ClockInShiftStatus,
		ClockOutShiftStatus: h.ClockOutShiftStatus,
	}
	if t, ok := parseTime(firstNonEmpty(h.ClockInTime, h.ClockIn)); ok {
		e.ClockIn = t
	}
	if t, ok := parseTime(firstNonEmpty(h.ClockOutTime, h.ClockOut)); ok {
		e.ClockOut = &t
	}
	return e
}

// flexInt accepts 200 and "200".
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// rawText renders a JSON string or number as text; null and absent give "".
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		// layouts without a zone are read as local wall time
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
