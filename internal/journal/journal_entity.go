package journal

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	// OutcomeDropped marks a server-confirmed punch-out that had no local
	// session to close.
	OutcomeDropped = "dropped"
)

const (
	PublishPending = "pending"
	PublishSent    = "sent"
	PublishFailed  = "failed"
)

// Entry is one punch attempt that reached the attendance service. The table
// doubles as the relay outbox.
type Entry struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID     string     `gorm:"size:64" json:"request_id,omitempty"`
	EmployeeID    string     `gorm:"size:64;index:idx_punch_journal_employee,priority:1;not null" json:"employee_id"`
	CompanyID     string     `gorm:"size:64" json:"company_id"`
	Direction     string     `gorm:"size:16;not null" json:"direction"`
	SessionID     string     `gorm:"size:64" json:"session_id,omitempty"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	Outcome       string     `gorm:"size:16;not null" json:"outcome"`
	Message       string     `gorm:"size:500" json:"message,omitempty"`
	OccurredAt    time.Time  `gorm:"index:idx_punch_journal_employee,priority:2;not null" json:"occurred_at"`
	PublishStatus string     `gorm:"size:16;index;not null" json:"publish_status"`
	RetryCount    int        `gorm:"not null" json:"retry_count"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ErrorMessage  *string    `gorm:"size:500" json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Entry) TableName() string {
	return "punch_journal"
}
