package events

import "time"

const LeaveInterruptionAppliedTopic = "leave.interruption.applied.v1"

type LeaveInterruptionAppliedEvent struct {
	EventType      string    `json:"event_type"`
	InterruptionID string    `json:"interruption_id"`
	LeaveID        string    `json:"leave_id"`
	EmployeeID     string    `json:"employee_id"`
	ResumeDate     string    `json:"resume_date"`
	CreditedDays   int       `json:"credited_days"`
	OccurredAt     time.Time `json:"occurred_at"`
}
