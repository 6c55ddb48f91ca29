package department

type CreateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	AffiliateID string  `json:"affiliate_id" binding:"required,uuid"`
	HodID       *string `json:"hod_id" binding:"omitempty,uuid"`
}

type UpdateDepartmentRequest struct {
	Name  string  `json:"name" binding:"required"`
	HodID *string `json:"hod_id" binding:"omitempty,uuid"`
}

type DepartmentResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AffiliateID   string  `json:"affiliate_id"`
	AffiliateName string  `json:"affiliate_name,omitempty"`
	HodID         *string `json:"hod_id,omitempty"`
}
