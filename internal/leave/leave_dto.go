package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=annual sick casual maternity unpaid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

type ApproveLeaveRequest struct {
	Comments string `json:"comments"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type ResumeLeaveRequest struct {
	ResumeDate string `json:"resume_date" binding:"required"`
}

type StageResponse struct {
	By *string `json:"by,omitempty"`
	At *string `json:"at,omitempty"`
}

type InterruptionSummaryResponse struct {
	ActualResumeDate string  `json:"actual_resume_date"`
	CreditedDays     int     `json:"credited_days"`
	Note             *string `json:"note,omitempty"`
	By               string  `json:"by"`
	At               string  `json:"at"`
}

type LeaveResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Affiliate    string `json:"affiliate,omitempty"`
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	WorkingDays  int    `json:"working_days"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`

	ManagerApproval *StageResponse `json:"manager_approval,omitempty"`
	HRApproval      *StageResponse `json:"hr_approval,omitempty"`
	CEOApproval     *StageResponse `json:"ceo_approval,omitempty"`

	ApprovalDate     *string `json:"approval_date,omitempty"`
	ApprovalComments *string `json:"approval_comments,omitempty"`

	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	CancelledBy *string `json:"cancelled_by,omitempty"`
	CancelledAt *string `json:"cancelled_at,omitempty"`

	ActualResumeDate *string                      `json:"actual_resume_date,omitempty"`
	Interruption     *InterruptionSummaryResponse `json:"interruption,omitempty"`
}
