package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest mirrors the registration form. Role is optional and only honoured when
// self-assigned roles are enabled in configuration.
type SignUpRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

type RejectAccountRequest struct {
	Reason string `json:"reason"`
}

type ListAccountsRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Role   string `form:"role" binding:"omitempty,oneof=admin user"`
}
