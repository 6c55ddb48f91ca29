package events

import "time"

const LeaveOverlapDetectedTopic = "leave.overlap.detected.v1"

// LeaveOverlapDetectedEvent flags that a new request puts several people
// of the same department out of office at once. Informational only; it
// never blocks the request.
type LeaveOverlapDetectedEvent struct {
	EventType    string    `json:"event_type"`
	LeaveID      string    `json:"leave_id"`
	EmployeeID   string    `json:"employee_id"`
	DepartmentID string    `json:"department_id"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	OverlapCount int       `json:"overlap_count"`
	OccurredAt   time.Time `json:"occurred_at"`
}
