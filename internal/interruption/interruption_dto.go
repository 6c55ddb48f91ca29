package interruption

type RecallLeaveRequest struct {
	RequestedResumeDate string `json:"requested_resume_date" binding:"required"`
	Reason              string `json:"reason" binding:"required"`
}

type EarlyReturnRequest struct {
	RequestedResumeDate string `json:"requested_resume_date" binding:"required"`
	Reason              string `json:"reason"`
}

type ApproveInterruptionRequest struct {
	Comments string `json:"comments"`
}

type RejectInterruptionRequest struct {
	Note string `json:"note" binding:"required"`
}

type DecisionResponse struct {
	By *string `json:"by,omitempty"`
	At *string `json:"at,omitempty"`
}

type InterruptionResponse struct {
	ID             string `json:"id"`
	LeaveRequestID string `json:"leave_request_id"`
	Kind           string `json:"kind"`
	Status         string `json:"status"`

	RequestedResumeDate string `json:"requested_resume_date"`
	Reason              string `json:"reason,omitempty"`

	InitiatedBy   string `json:"initiated_by"`
	InitiatedRole string `json:"initiated_role"`

	ManagerDecision *DecisionResponse `json:"manager_decision,omitempty"`
	HRDecision      *DecisionResponse `json:"hr_decision,omitempty"`
	CEODecision     *DecisionResponse `json:"ceo_decision,omitempty"`
	StaffDecision   *DecisionResponse `json:"staff_decision,omitempty"`

	DecisionNote *string `json:"decision_note,omitempty"`

	CreditedWorkingDays int     `json:"credited_working_days"`
	AppliedAt           *string `json:"applied_at,omitempty"`
}
