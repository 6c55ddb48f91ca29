package employee

type CreateEmployeeRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Role         string  `json:"role" binding:"required"`
	AffiliateID  *string `json:"affiliate_id" binding:"omitempty,uuid"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	ManagerID    *string `json:"manager_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	Role         string  `json:"role" binding:"required"`
	AffiliateID  *string `json:"affiliate_id" binding:"omitempty,uuid"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	ManagerID    *string `json:"manager_id" binding:"omitempty,uuid"`
	IsActive     *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	AffiliateID    *string `json:"affiliate_id,omitempty"`
	AffiliateName  string  `json:"affiliate_name,omitempty"`
	DepartmentID   *string `json:"department_id,omitempty"`
	DepartmentName string  `json:"department_name,omitempty"`
	ManagerID      *string `json:"manager_id,omitempty"`
	IsActive       bool    `json:"is_active"`
}
