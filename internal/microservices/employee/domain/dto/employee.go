package dto

type AddEmployeeRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"required"`
	Role      string `json:"role" validate:"required,employee_role"`
	InvitedBy string `json:"invitedBy"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,employee_status"`
}

type DevTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}
