package session

import "time"

type HistoryQuery struct {
	Refresh  bool `form:"refresh"`
	Page     int  `form:"page" binding:"omitempty,min=1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type RecordResponse struct {
	ID           string     `json:"id"`
	PunchInAt    time.Time  `json:"punchInAt"`
	PunchOutAt   *time.Time `json:"punchOutAt"`
	PunchInTime  string     `json:"punchInTime"`
	PunchInDate  string     `json:"punchInDate"`
	PunchOutTime string     `json:"punchOutTime,omitempty"`
	Source       string     `json:"source"`
	Resumed      bool       `json:"resumed,omitempty"`
	WorkingHours *float64   `json:"workingHours,omitempty"`
	Status       string     `json:"status,omitempty"`
	Standing     string     `json:"standing,omitempty"`
}

type SnapshotResponse struct {
	EmployeeID string          `json:"employeeId,omitempty"`
	State      State           `json:"state"`
	Title      string          `json:"title"`
	Current    *RecordResponse `json:"current"`
	Elapsed    string          `json:"elapsed,omitempty"`
	HistoryLen int             `json:"historyCount"`
	TakenAt    time.Time       `json:"takenAt"`
}

type PunchOutResponse struct {
	Closed  *RecordResponse `json:"closed"`
	Dropped bool            `json:"dropped"`
}

type ToggleResponse struct {
	Direction string          `json:"direction"`
	Record    *RecordResponse `json:"record"`
	Dropped   bool            `json:"dropped,omitempty"`
}

type StatusResponse struct {
	ClockedIn bool            `json:"clockedIn"`
	Current   *RecordResponse `json:"current"`
}

const (
	clockLayout = "15:04:05"
	dateLayout  = "Monday, January 2"
)

func ToRecordResponse(r *Record) *RecordResponse {
	if r == nil {
		return nil
	}
	resp := &RecordResponse{
		ID:           r.ID,
		PunchInAt:    r.PunchInAt,
		PunchOutAt:   r.PunchOutAt,
		PunchInTime:  r.PunchInAt.Format(clockLayout),
		PunchInDate:  r.PunchInAt.Format(dateLayout),
		Source:       r.Source,
		Resumed:      r.Resumed,
		WorkingHours: r.WorkingHours,
		Status:       r.Status,
		Standing:     r.Standing,
	}
	if r.PunchOutAt != nil {
		resp.PunchOutTime = r.PunchOutAt.Format(clockLayout)
	}
	return resp
}

func ToRecordResponses(records []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for i := range records {
		out = append(out, *ToRecordResponse(&records[i]))
	}
	return out
}

func ToSnapshotResponse(s Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		EmployeeID: s.EmployeeID,
		State:      s.State,
		Title:      "No Active Session",
		Current:    ToRecordResponse(s.Current),
		HistoryLen: len(s.History),
		TakenAt:    s.TakenAt,
	}
	if s.Current != nil {
		resp.Title = "Active Session"
		resp.Elapsed = DescribeElapsed(s.Elapsed)
	}
	return resp
}
