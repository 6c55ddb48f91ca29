package balance

type BalanceResponse struct {
	EmployeeID   string `json:"employee_id"`
	LeaveType    string `json:"leave_type"`
	Year         int    `json:"year"`
	EntitledDays int    `json:"entitled_days"`
	UsedDays     int    `json:"used_days"`
	PendingDays  int    `json:"pending_days"`
	Remaining    int    `json:"remaining"`
}
