package session

import (
	"fmt"
	"math"
	"time"
)

type State string

const (
	StateIdle       State = "idle"
	StatePunching   State = "punching"
	StateOpen       State = "open"
	StateClosingOut State = "closing_out"
)

func (s State) transitioning() bool {
	return s == StatePunching || s == StateClosingOut
}

const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Record is one work interval. A nil PunchOutAt means the record is open.
// Closed records are never mutated again.
type Record struct {
	ID         string     `json:"id"`
	PunchInAt  time.Time  `json:"punch_in_at"`
	PunchOutAt *time.Time `json:"punch_out_at"`
	Source     string     `json:"source"`
	// Resumed is set when the record was synthesized from a remote
	// "clocked in" status; PunchInAt is then the local resume time, not the
	// real punch-in time.
	Resumed      bool     `json:"resumed,omitempty"`
	WorkingHours *float64 `json:"working_hours,omitempty"`
	Status       string   `json:"status,omitempty"`
	Standing     string   `json:"standing,omitempty"`
}

func (r Record) IsOpen() bool {
	return r.PunchOutAt == nil
}

// Duration is measured up to now for open records.
func (r Record) Duration(now time.Time) time.Duration {
	end := now
	if r.PunchOutAt != nil {
		end = *r.PunchOutAt
	}
	if end.Before(r.PunchInAt) {
		return 0
	}
	return end.Sub(r.PunchInAt)
}

type Snapshot struct {
	EmployeeID string
	State      State
	Current    *Record
	Elapsed    time.Duration
	History    []Record
	TakenAt    time.Time
}

// DescribeElapsed renders a duration the way the punch screen shows it:
// "1 second", "12 minutes", "3 hours", "2 days".
func DescribeElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	unit := func(n float64, name string) string {
		v := int64(math.Round(n))
		if v == 1 {
			return fmt.Sprintf("1 %s", name)
		}
		return fmt.Sprintf("%d %ss", v, name)
	}

	switch {
	case d < time.Minute:
		return unit(d.Seconds(), "second")
	case d < time.Hour:
		return unit(d.Minutes(), "minute")
	case d < 24*time.Hour:
		return unit(d.Hours(), "hour")
	default:
		return unit(d.Hours()/24, "day")
	}
}

func cloneRecord(r *Record) *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.PunchOutAt != nil {
		t := *r.PunchOutAt
		c.PunchOutAt = &t
	}
	return &c
}

func cloneHistory(h []Record) []Record {
	out := make([]Record, len(h))
	copy(out, h)
	return out
}
